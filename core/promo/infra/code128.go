package infra

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Code128Renderer gera PNG Code 128 sem texto legível abaixo das barras.
type Code128Renderer struct {
	width  int
	height int
}

type Code128Option func(*Code128Renderer)

// WithSize define o tamanho mínimo da imagem. A largura nunca fica menor que
// a largura natural do símbolo.
func WithSize(width, height int) Code128Option {
	return func(r *Code128Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

func NewCode128Renderer(opts ...Code128Option) *Code128Renderer {
	r := &Code128Renderer{width: 400, height: 120}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implementa domain.Renderer.
func (r *Code128Renderer) Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("code128: empty payload")
	}

	bc, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("code128: %w", err)
	}

	w := max(r.width, bc.Bounds().Dx())
	scaled, err := barcode.Scale(bc, w, r.height)
	if err != nil {
		return nil, fmt.Errorf("code128 scale: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("code128 png: %w", err)
	}
	return buf.Bytes(), nil
}
