package application

import (
	"testing"
	"time"

	"promo-gateway/core/promo/domain"
)

type fakeLimiter struct {
	allow bool
}

func (f fakeLimiter) Allow() bool { return f.allow }

type fakeStore struct {
	lim domain.Limiter
}

func (s fakeStore) Get(domain.Key) domain.Limiter { return s.lim }

func TestThrottleService_AllowsWhenNoStore(t *testing.T) {
	dec := ThrottleService{}.Decide("k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestThrottleService_AllowsWhenLimiterAllows(t *testing.T) {
	svc := ThrottleService{Store: fakeStore{lim: fakeLimiter{allow: true}}, RetryAfter: 5 * time.Second}
	if dec := svc.Decide("k"); !dec.Allowed {
		t.Fatalf("expected allowed")
	}
}

func TestThrottleService_BlocksWithRetryAfterDefault(t *testing.T) {
	svc := ThrottleService{Store: fakeStore{lim: fakeLimiter{allow: false}}}
	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 1*time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}
