package promo

import (
	"net/http"
	"slices"
	"time"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/domain"
	"promo-gateway/core/promo/infra"
)

type ConcurrencyOptions struct {
	// Pool compartilhado (ex.: o mesmo registrado em Metrics.TrackSlots).
	// Nil cria um pool interno com Max vagas.
	Pool           domain.SlotPool
	Max            int
	AcquireTimeout time.Duration
	RejectStatus   int
	RetryAfter     time.Duration

	// Exempt lista caminhos que nunca esperam vaga, como /metrics.
	Exempt []string
}

// ConcurrencyMiddleware limita requisições simultâneas. Sem Pool e com
// Max <= 0 fica desligado. A rejeição usa o mesmo corpo JSON de erro da API.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil {
		opts.Pool = infra.NewChanPool(opts.Max)
	}
	if opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = time.Second
	}

	slots := application.Slots{Pool: opts.Pool, AcquireTimeout: opts.AcquireTimeout}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opts.Exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			release, ok := slots.Acquire(r.Context())
			if !ok {
				w.Header().Set("Retry-After", retryAfterSeconds(opts.RetryAfter))
				writeJSON(w, opts.RejectStatus, errorJSON{
					Error:     "server busy",
					Kind:      "busy",
					RequestID: RequestIDFromContext(r.Context()),
				})
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
