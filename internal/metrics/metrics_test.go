package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBackend(t *testing.T) {
	m := New()

	m.ObserveBackend("GET /cart", 200, 10*time.Millisecond)
	m.ObserveBackend("GET /cart", 200, 10*time.Millisecond)
	m.ObserveBackend("GET /cart", 0, time.Second)

	if got := testutil.ToFloat64(m.backendRequests.WithLabelValues("GET /cart", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.backendRequests.WithLabelValues("GET /cart", "network_error")); got != 1 {
		t.Errorf("network_error count = %v, want 1", got)
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.StaleDiscarded("cart")
	m.Unauthorized()
	m.Unauthorized()
	m.NormalizedItem("unknown")

	if got := testutil.ToFloat64(m.staleDiscarded.WithLabelValues("cart")); got != 1 {
		t.Errorf("stale = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.unauthorized); got != 2 {
		t.Errorf("unauthorized = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.normalizedItems.WithLabelValues("unknown")); got != 1 {
		t.Errorf("normalized = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.ObserveBackend("GET /cart", 200, time.Millisecond)
	m.StaleDiscarded("cart")
	m.Unauthorized()
	m.NormalizedItem("course")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", w.Code)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Unauthorized()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "storefront_unauthorized_signals_total 1") {
		t.Errorf("body missing unauthorized counter:\n%s", body)
	}
}
