package application

import (
	"fmt"
	"strings"

	"promo-gateway/core/promo/domain"
)

// Encode monta o payload numérico de uma loja.
//
// rawPrice vazio (ou só espaços) significa "sem preço". Perfis de sufixo fixo
// rejeitam preço informado; perfis com preço exigem um. Não calcula dígito
// verificador: isso é da simbologia (Code 128) na renderização.
func Encode(storeName, rawIdentifier, rawPrice string) (string, error) {
	p, ok := domain.Lookup(storeName)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStore, strings.TrimSpace(storeName))
	}

	id := strings.TrimSpace(rawIdentifier)
	if id == "" || !isDigits(id) {
		return "", fmt.Errorf("%w: %q must contain only digits", domain.ErrInvalidIdentifier, id)
	}
	width, ok := p.IdentifierWidth(len(id))
	if !ok {
		return "", fmt.Errorf("%w: %q exceeds %d digits for %s", domain.ErrInvalidIdentifier, id, p.MaxIdentifierLength(), p.Name)
	}

	price := strings.TrimSpace(rawPrice)

	var b strings.Builder
	b.Grow(p.PayloadLength(width))
	b.WriteString(p.Prefix)
	b.WriteString(zeroPad(id, width))

	if p.RequiresPrice() {
		digits, err := priceDigits(p, price)
		if err != nil {
			return "", err
		}
		b.WriteString(p.PriceFill)
		b.WriteString(digits)
	} else if price != "" {
		return "", fmt.Errorf("%w: %s does not take a price", domain.ErrUnexpectedPrice, p.Name)
	}

	b.WriteString(p.Suffix)
	return b.String(), nil
}

func priceDigits(p domain.StoreProfile, price string) (string, error) {
	if price == "" {
		return "", fmt.Errorf("%w: %s requires a price", domain.ErrInvalidPrice, p.Name)
	}
	if !isDigits(price) {
		return "", fmt.Errorf("%w: %q is not a non-negative integer", domain.ErrInvalidPrice, price)
	}
	// zeros à esquerda não contam para a largura
	v := strings.TrimLeft(price, "0")
	if len(v) > p.PriceLength {
		return "", fmt.Errorf("%w: %q does not fit in %d digits", domain.ErrInvalidPrice, price, p.PriceLength)
	}
	return zeroPad(v, p.PriceLength), nil
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
