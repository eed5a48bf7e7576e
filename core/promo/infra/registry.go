package infra

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"promo-gateway/core/promo/domain"
)

// Registry guarda as categorias em memória durante a vida do processo.
//
// O RWMutex protege apenas o conjunto de chaves e a ordem de inserção; cada
// categoria tem seu próprio mutex, então disparos de categorias diferentes
// não se bloqueiam.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*categoryEntry
	order   []string
}

type categoryEntry struct {
	mu  sync.Mutex
	cat domain.Category
}

var _ domain.CategoryRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*categoryEntry)}
}

// Register cria a categoria ou troca o cooldown de uma existente.
// Ao re-registrar, o guia é mantido e o último disparo é zerado.
func (r *Registry) Register(name string, cooldown time.Duration) error {
	key, err := categoryKey(name)
	if err != nil {
		return err
	}
	if cooldown < 0 {
		return fmt.Errorf("%w: %s must be >= 0", domain.ErrInvalidCooldown, cooldown)
	}

	ent := r.getOrCreate(key)
	ent.mu.Lock()
	ent.cat.Cooldown = cooldown
	ent.cat.LastTriggeredAt = time.Time{}
	ent.mu.Unlock()
	return nil
}

// AttachGuide define o guia. Categoria desconhecida é criada com cooldown 0.
func (r *Registry) AttachGuide(name, text string) error {
	key, err := categoryKey(name)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: %s", domain.ErrEmptyGuide, key)
	}

	ent := r.getOrCreate(key)
	ent.mu.Lock()
	ent.cat.Guide = text
	ent.mu.Unlock()
	return nil
}

// Trigger faz o check-then-set do cooldown sob o lock da categoria.
// Em cooldown, retorna ok=false e a espera restante sem alterar estado.
func (r *Registry) Trigger(name string, now time.Time) (bool, time.Duration, error) {
	ent, ok := r.lookup(name)
	if !ok {
		return false, 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, strings.TrimSpace(name))
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	if rem := ent.cat.Remaining(now); rem > 0 {
		return false, rem, nil
	}
	ent.cat.LastTriggeredAt = now
	return true, 0, nil
}

func (r *Registry) Get(name string) (domain.CategoryView, bool) {
	ent, ok := r.lookup(name)
	if !ok {
		return domain.CategoryView{}, false
	}
	return ent.view(), true
}

// List tira um snapshot na ordem da primeira inserção. A sequência pode ser
// percorrida várias vezes e sempre devolve o mesmo snapshot.
func (r *Registry) List() iter.Seq[domain.CategoryView] {
	r.mu.RLock()
	ents := make([]*categoryEntry, 0, len(r.order))
	for _, k := range r.order {
		ents = append(ents, r.entries[k])
	}
	r.mu.RUnlock()

	snap := make([]domain.CategoryView, len(ents))
	for i, ent := range ents {
		snap[i] = ent.view()
	}

	return func(yield func(domain.CategoryView) bool) {
		for _, v := range snap {
			if !yield(v) {
				return
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) lookup(name string) (*categoryEntry, bool) {
	key := strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	ent, ok := r.entries[key]
	return ent, ok
}

func (r *Registry) getOrCreate(key string) *categoryEntry {
	r.mu.RLock()
	ent, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return ent
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ent, ok := r.entries[key]; ok {
		return ent
	}
	ent = &categoryEntry{cat: domain.Category{Name: key}}
	r.entries[key] = ent
	r.order = append(r.order, key)
	return ent
}

func (e *categoryEntry) view() domain.CategoryView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CategoryView{Name: e.cat.Name, Cooldown: e.cat.Cooldown, Guide: e.cat.Guide}
}

func categoryKey(name string) (string, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return "", fmt.Errorf("%w: name is empty", domain.ErrInvalidCategory)
	}
	return key, nil
}
