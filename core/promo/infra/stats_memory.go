package infra

import (
	"context"
	"maps"
	"sync"

	"promo-gateway/core/promo/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryStatsStore conta disparos em memória. Útil para testes, para o CLI e
// como fallback quando o Redis está desligado.
//
// Não faz expiração.
type MemoryStatsStore struct {
	mu         sync.Mutex
	total      Counters
	byCategory map[string]Counters
	byCaller   map[domain.Key]Counters

	trackCallers bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackCallers(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackCallers = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byCategory: make(map[string]Counters),
		byCaller:   make(map[domain.Key]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = bump(s.total, ev.Allowed)
	s.byCategory[ev.Category] = bump(s.byCategory[ev.Category], ev.Allowed)
	if s.trackCallers && ev.Caller != "" {
		s.byCaller[ev.Caller] = bump(s.byCaller[ev.Caller], ev.Allowed)
	}
	return nil
}

func bump(c Counters, allowed bool) Counters {
	if allowed {
		c.Allowed++
	} else {
		c.Denied++
	}
	return c
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByCategory() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byCategory)
}

func (s *MemoryStatsStore) ByCaller() map[domain.Key]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byCaller)
}
