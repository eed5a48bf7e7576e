package domain

import (
	"iter"
	"time"
)

// Category é uma unidade de promoção com cooldown e guia opcional.
//
// LastTriggeredAt zero significa "nunca disparada"; Guide vazio significa "sem guia".
type Category struct {
	Name            string
	Cooldown        time.Duration
	LastTriggeredAt time.Time
	Guide           string
}

// CategoryView é a visão somente leitura usada em listagens.
type CategoryView struct {
	Name     string
	Cooldown time.Duration
	Guide    string
}

// Remaining calcula quanto falta para o cooldown expirar em now.
// Retorna 0 quando a categoria está pronta.
func (c Category) Remaining(now time.Time) time.Duration {
	if c.LastTriggeredAt.IsZero() || c.Cooldown <= 0 {
		return 0
	}
	elapsed := now.Sub(c.LastTriggeredAt)
	if elapsed >= c.Cooldown {
		return 0
	}
	return c.Cooldown - elapsed
}

// Renderer transforma um payload em imagem (ex.: PNG Code 128).
// O algoritmo de renderização não faz parte do domínio.
type Renderer interface {
	Render(payload string) ([]byte, error)
}

// CategoryRegistry é o agregado que controla categorias, cooldowns e guias.
//
// Trigger precisa ser atômico (check-then-set) por categoria: dois chamadores
// nunca podem observar "pronta" para o mesmo disparo.
type CategoryRegistry interface {
	Register(name string, cooldown time.Duration) error
	AttachGuide(name, text string) error
	Trigger(name string, now time.Time) (ok bool, remaining time.Duration, err error)
	Get(name string) (CategoryView, bool)
	List() iter.Seq[CategoryView]
}
