package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/domain"

	"github.com/google/uuid"
)

// Request é um comando já tokenizado.
type Request struct {
	ID      string
	Caller  domain.Key
	Command string // token sem "!", como digitado
	Args    []string
}

// Result é o que o chamador deve mostrar.
type Result struct {
	Text string

	// Image/ImageName vêm preenchidos quando o comando gera código de barras.
	Image     []byte
	ImageName string
	Payload   string

	// Cooldown > 0 indica categoria em cooldown (não é erro).
	Cooldown time.Duration
}

type Handler func(ctx context.Context, req Request) (Result, error)

// Observer recebe o resultado de cada comando (ex.: métricas).
type Observer interface {
	ObserveCommand(command, outcome string)
}

type route struct {
	usage string
	h     Handler
}

// Dispatcher mapeia tokens de comando para handlers. Um token desconhecido
// vai para o fallback (disparo de categoria).
type Dispatcher struct {
	routes   map[string]route
	order    []string
	fallback Handler

	Throttle application.ThrottleService
	Observer Observer
	Logger   *slog.Logger
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{routes: make(map[string]route)}
}

// Handle registra (ou substitui) um comando. O token é case-insensitive.
func (d *Dispatcher) Handle(command, usage string, h Handler) {
	command = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(command), "!"))
	if _, ok := d.routes[command]; !ok {
		d.order = append(d.order, command)
	}
	d.routes[command] = route{usage: usage, h: h}
}

// Fallback define o handler para tokens sem comando registrado.
func (d *Dispatcher) Fallback(h Handler) { d.fallback = h }

// Reserved diz se name colide com um comando registrado (mesma regra de
// Handle: sem "!" e sem diferenciar maiúsculas).
func (d *Dispatcher) Reserved(name string) bool {
	_, ok := d.routes[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "!"))]
	return ok
}

// Usages lista "!comando args" na ordem de registro.
func (d *Dispatcher) Usages() []string {
	out := make([]string, 0, len(d.order))
	for _, c := range d.order {
		out = append(out, d.routes[c].usage)
	}
	return out
}

// Dispatch interpreta a linha ("!barcode ms 123 100"), aplica o throttle do
// chamador e executa o handler.
func (d *Dispatcher) Dispatch(ctx context.Context, caller domain.Key, line string) (Result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}, ErrEmptyCommand
	}
	token := strings.TrimPrefix(fields[0], "!")
	if token == "" {
		return Result{}, ErrEmptyCommand
	}

	req := Request{
		ID:      uuid.NewString(),
		Caller:  caller,
		Command: token,
		Args:    fields[1:],
	}
	log := d.logger().With("request_id", req.ID, "caller", string(caller), "command", token)

	if dec := d.Throttle.Decide(caller); !dec.Allowed {
		d.observe(token, "throttled")
		log.Warn("command throttled", "retry_after", dec.RetryAfter)
		return Result{}, &RetryError{Err: ErrThrottled, RetryAfter: dec.RetryAfter}
	}

	h := d.fallback
	if r, ok := d.routes[strings.ToLower(token)]; ok {
		h = r.h
	}
	if h == nil {
		d.observe(token, "unknown")
		return Result{}, fmt.Errorf("%w: !%s", domain.ErrUnknownCategory, token)
	}

	res, err := h(ctx, req)
	switch {
	case err != nil:
		d.observe(token, outcome(err))
		log.Info("command failed", "error", err)
	case res.Cooldown > 0:
		d.observe(token, "cooldown")
		log.Info("command cooling down", "remaining", res.Cooldown)
	default:
		d.observe(token, "ok")
		log.Debug("command ok")
	}
	return res, err
}

func (d *Dispatcher) observe(command, result string) {
	if d.Observer == nil {
		return
	}
	if _, ok := d.routes[strings.ToLower(command)]; !ok {
		// categorias têm nomes livres; agrega para não explodir cardinalidade
		command = "category"
	}
	d.Observer.ObserveCommand(strings.ToLower(command), result)
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// outcome classifica o erro para métricas.
func outcome(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, domain.ErrUnknownStore),
		errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrUnexpectedPrice),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidCooldown),
		errors.Is(err, domain.ErrEmptyGuide):
		return "invalid"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "unknown"
	case errors.Is(err, application.ErrRenderBusy):
		return "busy"
	default:
		return "error"
	}
}
