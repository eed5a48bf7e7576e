package application

import (
	"time"

	"promo-gateway/core/promo/domain"
)

// ThrottleService decide se um chamador pode executar mais um comando agora.
//
// Não sabe nada sobre HTTP nem chat, apenas retorna uma decisão.
type ThrottleService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s ThrottleService) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
