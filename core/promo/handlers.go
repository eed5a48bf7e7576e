package promo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/dispatch"
	"promo-gateway/core/promo/domain"
)

// API expõe o núcleo via HTTP. Todos os campos exceto Registry e Render são opcionais.
type API struct {
	Registry   domain.CategoryRegistry
	Render     application.RenderService
	Cooldown   application.CooldownService
	Dispatcher *dispatch.Dispatcher
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Routes monta o mux. /metrics só existe com Metrics configurado.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, a.Metrics.Middleware(route, h))
	}

	handle("GET /stores", "stores", a.listStores)
	handle("GET /barcode", "barcode", a.barcode)
	handle("GET /categories", "categories", a.listCategories)
	handle("POST /categories", "categories", a.registerCategory)
	handle("PUT /categories/{name}/guide", "guide", a.attachGuide)
	handle("POST /categories/{name}/trigger", "trigger", a.trigger)
	if a.Dispatcher != nil {
		handle("POST /commands", "commands", a.command)
	}
	if a.Metrics != nil {
		mux.Handle("GET /metrics", a.Metrics.Handler())
	}
	return mux
}

type storeJSON struct {
	Name              string `json:"name"`
	Prefix            string `json:"prefix"`
	IdentifierLengths []int  `json:"identifier_lengths"`
	PriceLength       int    `json:"price_length,omitempty"`
	Suffix            string `json:"suffix,omitempty"`
}

func (a *API) listStores(w http.ResponseWriter, _ *http.Request) {
	ps := domain.Profiles()
	out := make([]storeJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, storeJSON{
			Name:              p.Name,
			Prefix:            p.Prefix,
			IdentifierLengths: p.IdentifierLengths,
			PriceLength:       p.PriceLength,
			Suffix:            p.Suffix,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// barcode: GET /barcode?store=ms&id=1234567&price=100 -> image/png.
// ?format=text devolve só o payload.
func (a *API) barcode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	store := q.Get("store")

	payload, err := application.Encode(store, q.Get("id"), q.Get("price"))
	if err != nil {
		a.Metrics.ObserveEncode(store, "invalid")
		a.writeError(w, r, err)
		return
	}
	a.Metrics.ObserveEncode(store, "ok")

	w.Header().Set("X-Barcode-Payload", payload)
	if q.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(payload))
		return
	}

	img, err := a.Render.Render(r.Context(), payload)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

type categoryJSON struct {
	Name            string  `json:"name"`
	CooldownSeconds int64   `json:"cooldown_seconds"`
	CooldownHours   float64 `json:"cooldown_hours"`
	Guide           string  `json:"guide,omitempty"`
}

func toCategoryJSON(v domain.CategoryView) categoryJSON {
	return categoryJSON{
		Name:            v.Name,
		CooldownSeconds: int64(v.Cooldown / time.Second),
		CooldownHours:   v.Cooldown.Hours(),
		Guide:           v.Guide,
	}
}

func (a *API) listCategories(w http.ResponseWriter, _ *http.Request) {
	out := []categoryJSON{}
	for v := range a.Registry.List() {
		out = append(out, toCategoryJSON(v))
	}
	writeJSON(w, http.StatusOK, out)
}

type registerRequest struct {
	Name  string `json:"name"`
	Hours string `json:"hours"`
}

func (a *API) registerCategory(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	cooldown, err := application.ParseCooldownHours(req.Hours)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.Registry.Register(req.Name, cooldown); err != nil {
		a.writeError(w, r, err)
		return
	}
	v, _ := a.Registry.Get(req.Name)
	writeJSON(w, http.StatusCreated, toCategoryJSON(v))
}

type guideRequest struct {
	Guide string `json:"guide"`
}

func (a *API) attachGuide(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	name := r.PathValue("name")
	if err := a.Registry.AttachGuide(name, req.Guide); err != nil {
		a.writeError(w, r, err)
		return
	}
	v, _ := a.Registry.Get(name)
	writeJSON(w, http.StatusOK, toCategoryJSON(v))
}

type triggerJSON struct {
	Allowed           bool   `json:"allowed"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
	Guide             string `json:"guide,omitempty"`
}

// trigger: 200 quando dispara, 429 + Retry-After quando em cooldown.
func (a *API) trigger(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	dec, err := a.Cooldown.Trigger(r.Context(), CallerFromContext(r.Context()), name)
	if err != nil {
		a.Metrics.ObserveTrigger("unknown")
		a.writeError(w, r, err)
		return
	}
	if !dec.Allowed {
		a.Metrics.ObserveTrigger("cooldown")
		w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
		writeJSON(w, http.StatusTooManyRequests, triggerJSON{
			RetryAfterSeconds: int64((dec.RetryAfter + time.Second - 1) / time.Second),
		})
		return
	}
	a.Metrics.ObserveTrigger("allowed")
	v, _ := a.Registry.Get(name)
	writeJSON(w, http.StatusOK, triggerJSON{Allowed: true, Guide: v.Guide})
}

type commandRequest struct {
	Caller string `json:"caller"`
	Line   string `json:"line"`
}

type commandResponse struct {
	Text            string `json:"text,omitempty"`
	Payload         string `json:"payload,omitempty"`
	Image           []byte `json:"image,omitempty"`
	ImageName       string `json:"image_name,omitempty"`
	CooldownSeconds int64  `json:"cooldown_seconds,omitempty"`
}

// command executa uma linha de chat pela tabela de comandos.
func (a *API) command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	caller := domain.Key(req.Caller)
	if caller == "" {
		caller = CallerFromContext(r.Context())
	}

	res, err := a.Dispatcher.Dispatch(r.Context(), caller, req.Line)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{
		Text:            res.Text,
		Payload:         res.Payload,
		Image:           res.Image,
		ImageName:       res.ImageName,
		CooldownSeconds: int64((res.Cooldown + time.Second - 1) / time.Second),
	})
}

type errorJSON struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor traduz erros do núcleo para status HTTP.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownStore):
		return http.StatusBadRequest, "unknown_store"
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid_identifier"
	case errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, "invalid_price"
	case errors.Is(err, domain.ErrUnexpectedPrice):
		return http.StatusBadRequest, "unexpected_price"
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid_category"
	case errors.Is(err, domain.ErrInvalidCooldown):
		return http.StatusBadRequest, "invalid_cooldown"
	case errors.Is(err, domain.ErrEmptyGuide):
		return http.StatusBadRequest, "empty_guide"
	case errors.Is(err, dispatch.ErrUsage), errors.Is(err, dispatch.ErrEmptyCommand):
		return http.StatusBadRequest, "usage"
	case errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusNotFound, "unknown_category"
	case errors.Is(err, dispatch.ErrThrottled):
		return http.StatusTooManyRequests, "throttled"
	case errors.Is(err, application.ErrRenderBusy):
		return http.StatusServiceUnavailable, "render_busy"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)

	var re *dispatch.RetryError
	if errors.As(err, &re) {
		w.Header().Set("Retry-After", retryAfterSeconds(re.RetryAfter))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.logger().Error("request failed", "request_id", RequestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorJSON{Error: msg, Kind: kind, RequestID: RequestIDFromContext(r.Context())})
}

func (a *API) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
