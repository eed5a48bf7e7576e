package domain

import (
	"context"
	"time"
)

// StatsEvent registra uma decisão de disparo de categoria.
//
// Cuidado com cardinalidade: Caller pode explodir o número de chaves no Redis.
type StatsEvent struct {
	Category string
	Caller   Key
	Allowed  bool

	// Remaining é a espera restante quando Allowed=false.
	Remaining time.Duration

	At time.Time
}

// StatsStore persiste estatísticas de disparo.
//
// Best-effort: quem chama não deve falhar a operação por erro aqui.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
