package promo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/domain"

	"github.com/google/uuid"
)

type KeyFunc func(r *http.Request) string

type ThrottleOptions struct {
	Store               domain.LimiterStore
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	Disabled            bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

type ctxKey int

const (
	callerKey ctxKey = iota
	requestIDKey
)

// CallerFromContext retorna a chave do chamador definida pelo ThrottleMiddleware.
func CallerFromContext(ctx context.Context) domain.Key {
	if k, ok := ctx.Value(callerKey).(domain.Key); ok {
		return k
	}
	return ""
}

// RequestIDFromContext retorna o id definido pelo RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// ThrottleMiddleware resolve a chave do chamador, guarda no contexto e aplica
// o token bucket por chamador. Com Disabled=true só resolve a chave.
func ThrottleMiddleware(opts ThrottleOptions) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.ThrottleService{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := domain.Key(opts.KeyFn(r))
			r = r.WithContext(context.WithValue(r.Context(), callerKey, key))

			if opts.Disabled {
				next.ServeHTTP(w, r)
				return
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", string(key))
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			if dec := svc.Decide(key); !dec.Allowed {
				w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware reaproveita X-Request-ID do cliente ou gera um UUID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}
