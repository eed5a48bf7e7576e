package domain

import (
	"slices"
	"strings"
)

// StoreProfile é a regra estática de formatação do payload de uma loja.
//
// Payload = Prefix + identificador (zero à esquerda) + [PriceFill + preço] + Suffix.
// PriceLength == 0 indica perfil de sufixo fixo (não aceita preço).
type StoreProfile struct {
	Name              string
	Prefix            string
	IdentifierLengths []int // larguras permitidas, em ordem crescente
	PriceFill         string
	PriceLength       int
	Suffix            string
}

// RequiresPrice indica se o perfil tem slot de preço.
func (p StoreProfile) RequiresPrice() bool { return p.PriceLength > 0 }

// MaxIdentifierLength é a maior largura de identificador aceita.
func (p StoreProfile) MaxIdentifierLength() int {
	if len(p.IdentifierLengths) == 0 {
		return 0
	}
	return p.IdentifierLengths[len(p.IdentifierLengths)-1]
}

// IdentifierWidth retorna a menor largura permitida >= n.
// ok=false quando n excede a maior largura.
func (p StoreProfile) IdentifierWidth(n int) (int, bool) {
	for _, w := range p.IdentifierLengths {
		if n <= w {
			return w, true
		}
	}
	return 0, false
}

// PayloadLength é o tamanho do payload para um identificador de largura width.
func (p StoreProfile) PayloadLength(width int) int {
	n := len(p.Prefix) + width + len(p.Suffix)
	if p.RequiresPrice() {
		n += len(p.PriceFill) + p.PriceLength
	}
	return n
}

// Os dígitos constantes (PriceFill/Suffix) seguem os payloads aceitos pelos
// leitores das lojas, não apenas as larguras nominais.
var profiles = []StoreProfile{
	{Name: "ms", Prefix: "821", IdentifierLengths: []int{8}, PriceLength: 7},
	{Name: "waitrose", Prefix: "10", IdentifierLengths: []int{13}, PriceFill: "00", PriceLength: 2},
	{Name: "morrisons", Prefix: "92", IdentifierLengths: []int{13}, Suffix: "00113300027"},
	{Name: "savers", Prefix: "97", IdentifierLengths: []int{13}, PriceLength: 3, Suffix: "0"},
	{Name: "sainsburys", Prefix: "91", IdentifierLengths: []int{8, 13}, PriceLength: 3, Suffix: "0"},
}

// Profiles retorna uma cópia da tabela, na ordem de declaração.
func Profiles() []StoreProfile {
	out := make([]StoreProfile, len(profiles))
	for i, p := range profiles {
		p.IdentifierLengths = slices.Clone(p.IdentifierLengths)
		out[i] = p
	}
	return out
}

// Lookup busca um perfil pelo nome (case-insensitive, ignora espaços nas bordas).
func Lookup(name string) (StoreProfile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range profiles {
		if p.Name == name {
			p.IdentifierLengths = slices.Clone(p.IdentifierLengths)
			return p, true
		}
	}
	return StoreProfile{}, false
}
