package application

import (
	"context"
	"errors"
	"fmt"

	"promo-gateway/core/promo/domain"
)

var (
	ErrRenderBusy = errors.New("renderer busy")
	ErrNoRenderer = errors.New("no renderer configured")
)

// RenderService limita renderizações simultâneas e delega ao Renderer.
type RenderService struct {
	Renderer domain.Renderer
	Slots    Slots
}

func (s RenderService) Render(ctx context.Context, payload string) ([]byte, error) {
	if s.Renderer == nil {
		return nil, ErrNoRenderer
	}

	release, ok := s.Slots.Acquire(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrRenderBusy
	}
	defer release()

	img, err := s.Renderer.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", payload, err)
	}
	return img, nil
}

// EncodeAndRender é o fluxo completo loja -> payload -> imagem.
func (s RenderService) EncodeAndRender(ctx context.Context, store, identifier, price string) (string, []byte, error) {
	payload, err := Encode(store, identifier, price)
	if err != nil {
		return "", nil, err
	}
	img, err := s.Render(ctx, payload)
	if err != nil {
		return payload, nil, err
	}
	return payload, img, nil
}
