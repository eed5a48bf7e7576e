package infra

import (
	"context"
	"testing"
	"time"

	"promo-gateway/core/promo/domain"
)

func TestLimiterStore_GetSameKeyReturnsSameLimiter(t *testing.T) {
	s := NewLimiterStore(10, 1)

	l1 := s.Get(domain.Key("k"))
	l2 := s.Get(domain.Key("k"))
	if l1 != l2 {
		t.Fatalf("expected same limiter pointer for same key")
	}
}

func TestLimiterStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewLimiterStore(0.02, 1)

	lim := s.Get(domain.Key("k"))
	if !lim.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if lim.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
}

func TestLimiterStore_CleanupRemovesIdleEntries(t *testing.T) {
	now := t0
	s := NewLimiterStore(10, 1, WithIdleTTL(time.Minute), WithCleanupEvery(0), withClock(func() time.Time { return now }))

	before := s.Get(domain.Key("k"))
	now = now.Add(2 * time.Minute)
	s.Cleanup()

	if s.Len() != 0 {
		t.Fatalf("expected idle entry to be removed, got %d", s.Len())
	}
	if after := s.Get(domain.Key("k")); before == after {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}

func TestLimiterStore_JanitorDisabledWithoutInterval(t *testing.T) {
	s := NewLimiterStore(10, 1, WithCleanupEvery(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartJanitor(ctx) // não deve iniciar goroutine nem travar
	_ = s.Get("k")
	if s.Len() != 1 {
		t.Fatalf("expected one entry, got %d", s.Len())
	}
}
