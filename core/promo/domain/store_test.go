package domain

import (
	"testing"
	"time"
)

func TestLookup_IsCaseInsensitive(t *testing.T) {
	p, ok := Lookup("  MorRisons ")
	if !ok {
		t.Fatalf("expected morrisons profile")
	}
	if p.Prefix != "92" {
		t.Fatalf("expected prefix 92, got %q", p.Prefix)
	}
	if p.RequiresPrice() {
		t.Fatalf("expected fixed-suffix profile")
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Lookup("tesco"); ok {
		t.Fatalf("expected unknown store")
	}
}

func TestProfiles_ReturnsCopy(t *testing.T) {
	ps := Profiles()
	if len(ps) != 5 {
		t.Fatalf("expected 5 profiles, got %d", len(ps))
	}
	ps[4].IdentifierLengths[0] = 99

	p, _ := Lookup("sainsburys")
	if p.IdentifierLengths[0] != 8 {
		t.Fatalf("expected profile table to be immutable, got %v", p.IdentifierLengths)
	}
}

func TestIdentifierWidth_PicksSmallestFittingWidth(t *testing.T) {
	p, _ := Lookup("sainsburys")

	cases := []struct {
		n    int
		want int
		ok   bool
	}{
		{1, 8, true},
		{8, 8, true},
		{9, 13, true},
		{13, 13, true},
		{14, 0, false},
	}
	for _, c := range cases {
		got, ok := p.IdentifierWidth(c.n)
		if got != c.want || ok != c.ok {
			t.Fatalf("IdentifierWidth(%d) = (%d, %v), want (%d, %v)", c.n, got, ok, c.want, c.ok)
		}
	}
}

func TestPayloadLength(t *testing.T) {
	ms, _ := Lookup("ms")
	if got := ms.PayloadLength(8); got != 18 {
		t.Fatalf("expected ms payload length 18, got %d", got)
	}
	waitrose, _ := Lookup("waitrose")
	if got := waitrose.PayloadLength(13); got != 19 {
		t.Fatalf("expected waitrose payload length 19, got %d", got)
	}
	morrisons, _ := Lookup("morrisons")
	if got := morrisons.PayloadLength(13); got != 26 {
		t.Fatalf("expected morrisons payload length 26, got %d", got)
	}
}

func TestCategory_Remaining(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	c := Category{Name: "promo", Cooldown: time.Hour}

	if got := c.Remaining(t0); got != 0 {
		t.Fatalf("expected never-triggered category to be ready, got %s", got)
	}

	c.LastTriggeredAt = t0
	if got := c.Remaining(t0.Add(30 * time.Minute)); got != 30*time.Minute {
		t.Fatalf("expected 30m remaining, got %s", got)
	}
	if got := c.Remaining(t0.Add(time.Hour)); got != 0 {
		t.Fatalf("expected ready after cooldown, got %s", got)
	}
}
