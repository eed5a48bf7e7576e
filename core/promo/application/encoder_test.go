package application

import (
	"errors"
	"strings"
	"testing"

	"promo-gateway/core/promo/domain"
)

func TestEncode_MS(t *testing.T) {
	got, err := Encode("ms", "1234567", "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "821" + "01234567" + "0000100"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEncode_MorrisonsFixedSuffix(t *testing.T) {
	got, err := Encode("morrisons", "1234567890123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "92" + "1234567890123" + "00113300027"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEncode_MorrisonsRejectsPrice(t *testing.T) {
	_, err := Encode("morrisons", "1234567890123", "100")
	if !errors.Is(err, domain.ErrUnexpectedPrice) {
		t.Fatalf("expected ErrUnexpectedPrice, got %v", err)
	}
}

func TestEncode_KnownPayloads(t *testing.T) {
	cases := []struct {
		store, id, price string
		want             string
	}{
		{"waitrose", "42", "7", "10" + "0000000000042" + "00" + "07"},
		{"savers", "42", "250", "97" + "0000000000042" + "250" + "0"},
		{"sainsburys", "1234", "99", "91" + "00001234" + "099" + "0"},
		{"sainsburys", "123456789", "99", "91" + "0000123456789" + "099" + "0"},
		{"MS", " 12345678 ", " 0000042 ", "821" + "12345678" + "0000042"},
	}
	for _, c := range cases {
		got, err := Encode(c.store, c.id, c.price)
		if err != nil {
			t.Fatalf("Encode(%q,%q,%q): unexpected error: %v", c.store, c.id, c.price, err)
		}
		if got != c.want {
			t.Fatalf("Encode(%q,%q,%q) = %q, want %q", c.store, c.id, c.price, got, c.want)
		}
	}
}

func TestEncode_LengthMatchesProfile(t *testing.T) {
	for _, p := range domain.Profiles() {
		for _, width := range p.IdentifierLengths {
			id := strings.Repeat("7", width)
			price := ""
			if p.RequiresPrice() {
				price = strings.Repeat("9", p.PriceLength)
			}

			got, err := Encode(p.Name, id, price)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", p.Name, err)
			}
			if len(got) != p.PayloadLength(width) {
				t.Fatalf("%s: expected length %d, got %d (%q)", p.Name, p.PayloadLength(width), len(got), got)
			}
			if !isDigits(got) {
				t.Fatalf("%s: expected digits only, got %q", p.Name, got)
			}
		}
	}
}

func TestEncode_IsDeterministic(t *testing.T) {
	first, err := Encode("savers", "555", "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, _ := Encode("savers", "555", "12")
		if again != first {
			t.Fatalf("expected %q, got %q", first, again)
		}
	}
}

func TestEncode_Errors(t *testing.T) {
	cases := []struct {
		name             string
		store, id, price string
		want             error
	}{
		{"unknown store", "tesco", "123", "1", domain.ErrUnknownStore},
		{"empty identifier", "ms", "", "1", domain.ErrInvalidIdentifier},
		{"non-digit identifier", "ms", "12a4", "1", domain.ErrInvalidIdentifier},
		{"negative identifier", "ms", "-123", "1", domain.ErrInvalidIdentifier},
		{"identifier too long", "ms", "123456789", "1", domain.ErrInvalidIdentifier},
		{"sainsburys too long", "sainsburys", "12345678901234", "1", domain.ErrInvalidIdentifier},
		{"missing price", "ms", "123", "", domain.ErrInvalidPrice},
		{"blank price", "savers", "123", "   ", domain.ErrInvalidPrice},
		{"non-digit price", "ms", "123", "1.50", domain.ErrInvalidPrice},
		{"negative price", "savers", "123", "-1", domain.ErrInvalidPrice},
		{"price overflow", "waitrose", "123", "100", domain.ErrInvalidPrice},
		{"price on fixed suffix", "morrisons", "123", "0", domain.ErrUnexpectedPrice},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encode(c.store, c.id, c.price)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v (payload %q)", c.want, err, got)
			}
			if got != "" {
				t.Fatalf("expected empty payload on error, got %q", got)
			}
		})
	}
}

func TestEncode_PriceLeadingZerosFit(t *testing.T) {
	got, err := Encode("waitrose", "1", "0099")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "0099") {
		t.Fatalf("expected fill+price suffix 0099, got %q", got)
	}
}
