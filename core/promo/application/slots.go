package application

import (
	"context"
	"time"

	"promo-gateway/core/promo/domain"
)

// Slots concentra a aquisição/liberação de vagas com timeout, sem saber nada
// sobre HTTP.
type Slots struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - Pool nil: sempre permite.
//   - AcquireTimeout <= 0: espera até o ctx cancelar.
//   - AcquireTimeout > 0: espera até o timeout.
//
// Se ok=false, nenhuma vaga foi adquirida e release não deve ser chamado.
func (s Slots) Acquire(ctx context.Context) (release func(), ok bool) {
	if s.Pool == nil {
		return func() {}, true
	}
	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}
