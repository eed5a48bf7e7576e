package infra

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"promo-gateway/core/promo/domain"
)

var t0 = time.Unix(1_700_000_000, 0)

func views(r *Registry) []domain.CategoryView {
	return slices.Collect(r.List())
}

func TestRegistry_TriggerRespectsCooldown(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("freebies", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, _, err := r.Trigger("freebies", t0)
	if err != nil || !ok {
		t.Fatalf("expected first trigger ok, got ok=%v err=%v", ok, err)
	}

	ok, rem, err := r.Trigger("freebies", t0.Add(1800*time.Second))
	if err != nil || ok {
		t.Fatalf("expected trigger at t=1800 to be blocked, got ok=%v err=%v", ok, err)
	}
	if rem != 1800*time.Second {
		t.Fatalf("expected 1800s remaining, got %s", rem)
	}

	ok, _, err = r.Trigger("freebies", t0.Add(3600*time.Second))
	if err != nil || !ok {
		t.Fatalf("expected trigger at t=3600 ok, got ok=%v err=%v", ok, err)
	}
}

func TestRegistry_BlockedTriggerDoesNotMoveWindow(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("p", time.Hour)

	_, _, _ = r.Trigger("p", t0)
	_, _, _ = r.Trigger("p", t0.Add(59*time.Minute))

	ok, _, _ := r.Trigger("p", t0.Add(time.Hour))
	if !ok {
		t.Fatalf("expected window anchored at first successful trigger")
	}
}

func TestRegistry_ZeroCooldownAlwaysTriggers(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("p", 0)
	for i := 0; i < 3; i++ {
		if ok, _, _ := r.Trigger("p", t0); !ok {
			t.Fatalf("expected zero cooldown to always allow")
		}
	}
}

func TestRegistry_TriggerUnknownCategory(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Trigger("nope", t0)
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestRegistry_ConcurrentTriggerAllowsExactlyOne(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("drop", time.Hour)

	const callers = 64
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		allowed atomic.Int64
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if ok, _, _ := r.Trigger("drop", t0); ok {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := allowed.Load(); got != 1 {
		t.Fatalf("expected exactly one successful trigger, got %d", got)
	}
}

func TestRegistry_ReRegisterKeepsGuideResetsWindow(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("p", time.Hour)
	_ = r.AttachGuide("p", "scan at till 3")
	_, _, _ = r.Trigger("p", t0)

	_ = r.Register("p", 2*time.Hour)

	v, ok := r.Get("p")
	if !ok {
		t.Fatalf("expected category")
	}
	if v.Cooldown != 2*time.Hour || v.Guide != "scan at till 3" {
		t.Fatalf("unexpected view after re-register: %+v", v)
	}
	if ok, _, _ := r.Trigger("p", t0.Add(time.Minute)); !ok {
		t.Fatalf("expected re-register to reset last trigger")
	}
	if got := len(views(r)); got != 1 {
		t.Fatalf("expected no duplicate entries, got %d", got)
	}
}

func TestRegistry_ListKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("zeta", time.Hour)
	_ = r.AttachGuide("alpha", "auto-created")
	_ = r.Register("mid", 30*time.Minute)
	_ = r.Register("zeta", 3*time.Hour)

	got := views(r)
	names := make([]string, len(got))
	for i, v := range got {
		names[i] = v.Name
	}
	if !slices.Equal(names, []string{"zeta", "alpha", "mid"}) {
		t.Fatalf("unexpected order %v", names)
	}
	if got[0].Cooldown != 3*time.Hour {
		t.Fatalf("expected updated cooldown, got %s", got[0].Cooldown)
	}
	if got[1].Cooldown != 0 || got[1].Guide != "auto-created" {
		t.Fatalf("expected guide-only entry with zero cooldown, got %+v", got[1])
	}
}

func TestRegistry_ListIsRestartableSnapshot(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("a", time.Hour)

	seq := r.List()
	_ = r.Register("b", time.Hour)

	for i := 0; i < 2; i++ {
		n := 0
		for range seq {
			n++
		}
		if n != 1 {
			t.Fatalf("pass %d: expected snapshot of 1 entry, got %d", i, n)
		}
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 categories, got %d", r.Len())
	}
}

func TestRegistry_ValidationErrors(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("  ", time.Hour); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if err := r.Register("p", -time.Second); !errors.Is(err, domain.ErrInvalidCooldown) {
		t.Fatalf("expected ErrInvalidCooldown, got %v", err)
	}
	if err := r.AttachGuide("p", " \t "); !errors.Is(err, domain.ErrEmptyGuide) {
		t.Fatalf("expected ErrEmptyGuide, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected failed operations not to create entries, got %d", r.Len())
	}
}
