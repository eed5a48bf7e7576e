package domain

import "time"

// Key identifica quem chama (usuário do chat, IP, API key).
type Key string

// Limiter decide se uma ação é permitida agora.
//
// A camada de infra usa golang.org/x/time/rate (token bucket).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave.
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é a espera recomendada quando bloqueado. 0 = sem recomendação.
	RetryAfter time.Duration
}
