package promo

import (
	"net/http"
	"time"

	"promo-gateway/core/promo/domain"
	"promo-gateway/core/promo/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os contadores do serviço num registry próprio.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry
	encodes   *prometheus.CounterVec
	triggers  *prometheus.CounterVec
	commands  *prometheus.CounterVec
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "promo"
	}
	m := &Metrics{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		encodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encodes_total",
			Help:      "Barcode payloads encoded, by store and outcome.",
		}, []string{"store", "outcome"}),
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Category trigger attempts, by outcome.",
		}, []string{"outcome"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Chat commands dispatched, by command and outcome.",
		}, []string{"command", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	m.registry.MustRegister(m.encodes, m.triggers, m.commands, m.requests, m.durations)
	return m
}

// ObserveEncode conta uma codificação. Lojas desconhecidas viram "unknown".
func (m *Metrics) ObserveEncode(store, outcome string) {
	if m == nil {
		return
	}
	p, ok := domain.Lookup(store)
	label := "unknown"
	if ok {
		label = p.Name
	}
	m.encodes.WithLabelValues(label, outcome).Inc()
}

func (m *Metrics) ObserveTrigger(outcome string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(outcome).Inc()
}

// ObserveCommand implementa dispatch.Observer.
func (m *Metrics) ObserveCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

// TrackSlots publica as vagas em uso de um pool como slots_in_use{pool=...}.
// Pools sem SlotUsage (ou nil, sem limite) são ignorados.
func (m *Metrics) TrackSlots(pool string, p domain.SlotPool) {
	if m == nil {
		return
	}
	usage, ok := p.(infra.SlotUsage)
	if !ok {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "slots_in_use",
		Help:        "Slots currently held, by pool.",
		ConstLabels: prometheus.Labels{"pool": pool},
	}, func() float64 { return float64(usage.InUse()) }))
}

// Middleware mede duração e status por rota.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.requests.WithLabelValues(route, r.Method, formatInt(rec.status)).Inc()
		m.durations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer expõe o registry (usado em testes).
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
