package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCheckout(t *testing.T) {
	m := New()
	m.ObserveCheckout("placed")
	m.ObserveCheckout("placed")
	m.ObserveCheckout("empty_cart")

	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("placed")); got != 2 {
		t.Fatalf("expected 2 placed, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `storefront_checkouts_total{outcome="empty_cart"} 1`) {
		t.Fatalf("metrics output missing checkout counter:\n%s", rec.Body.String())
	}
}
