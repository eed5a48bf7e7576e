package infra

import (
	"context"
	"sync"

	"promo-gateway/core/promo/domain"
)

// SlotUsage é implementado pelos pools que sabem a própria ocupação.
// As métricas usam para publicar vagas em uso por pool (requests, render).
type SlotUsage interface {
	InUse() int
	Cap() int
}

// slotPool limita renderizações ou requisições simultâneas.
type slotPool struct {
	sem chan struct{}
}

var (
	_ domain.SlotPool = (*slotPool)(nil)
	_ SlotUsage       = (*slotPool)(nil)
)

// NewChanPool cria o pool com max vagas. max <= 0 retorna nil (sem limite),
// que application.Slots trata como "sempre permite".
func NewChanPool(max int) domain.SlotPool {
	if max <= 0 {
		return nil
	}
	return &slotPool{sem: make(chan struct{}, max)}
}

// Acquire ocupa uma vaga. O release devolvido é idempotente: chamar duas
// vezes não libera a vaga de outro chamador.
func (p *slotPool) Acquire(ctx context.Context) (func(), bool) {
	if err := ctx.Err(); err != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *slotPool) InUse() int { return len(p.sem) }

func (p *slotPool) Cap() int { return cap(p.sem) }
