package promo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/infra"
)

// heldRenderer segura cada render até o teste liberar.
type heldRenderer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *heldRenderer) Render(payload string) ([]byte, error) {
	r.once.Do(func() { close(r.started) })
	<-r.release
	return []byte("PNG" + payload), nil
}

func TestConcurrencyMiddleware_BusyBarcodeRoute(t *testing.T) {
	renderer := &heldRenderer{started: make(chan struct{}), release: make(chan struct{})}
	m := NewMetrics("test")
	pool := infra.NewChanPool(1)
	m.TrackSlots("requests", pool)

	api := &API{
		Registry: infra.NewRegistry(),
		Render:   application.RenderService{Renderer: renderer},
		Metrics:  m,
	}
	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Pool:           pool,
		AcquireTimeout: 25 * time.Millisecond,
		RetryAfter:     2 * time.Second,
		Exempt:         []string{"/metrics"},
	})(api.Routes())
	h = RequestIDMiddleware(h)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/barcode?store=savers&id=42&price=250", nil))
		first <- w
	}()

	select {
	case <-renderer.started:
	case <-time.After(500 * time.Millisecond):
		close(renderer.release)
		t.Fatalf("timeout waiting first barcode render to start")
	}

	// com a vaga ocupada pelo render, outro barcode é recusado
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/barcode?store=ms&id=1234567&price=100", nil))
	if w.Code != http.StatusServiceUnavailable {
		close(renderer.release)
		t.Fatalf("expected 503 while the render slot is held, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After=2, got %q", got)
	}
	var body errorJSON
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Kind != "busy" || body.RequestID == "" {
		t.Fatalf("unexpected error body %+v", body)
	}

	// /metrics não disputa vaga e mostra a ocupação
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		close(renderer.release)
		t.Fatalf("expected /metrics to bypass the pool, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `test_slots_in_use{pool="requests"} 1`) {
		close(renderer.release)
		t.Fatalf("expected one request slot in use:\n%s", w.Body.String())
	}

	close(renderer.release)
	w = <-first
	if w.Code != http.StatusOK {
		t.Fatalf("expected first barcode 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Barcode-Payload"); got != "9700000000000422500" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestConcurrencyMiddleware_DisabledServesStores(t *testing.T) {
	api := &API{Registry: infra.NewRegistry()}
	h := ConcurrencyMiddleware(ConcurrencyOptions{})(api.Routes())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stores", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
}
