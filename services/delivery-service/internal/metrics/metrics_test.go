package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/quote"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/tariff"
)

func TestMetrics_ExposesQuoteOutcomes(t *testing.T) {
	m := New()
	m.ObserveQuote(quote.Decision{Available: true, Slots: make([]availability.Slot, 3)})
	m.ObserveQuote(quote.Decision{Reason: tariff.ReasonCityNotServed})
	m.CacheLookup("hit")

	h := m.InstrumentHandler("/quote", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/quote", nil))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	for _, want := range []string{
		`delivery_quotes_total{outcome="available",reason="none"} 1`,
		`delivery_quotes_total{outcome="blocked",reason="city_not_served"} 1`,
		`delivery_settings_cache_lookups_total{result="hit"} 1`,
		`delivery_http_requests_total{method="POST",route="/quote",status="418"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveQuote(quote.Decision{})
	m.CacheLookup("miss")
	m.EventConsumed("applied")
	h := http.NotFoundHandler()
	if got := m.InstrumentHandler("/x", h); got == nil {
		t.Fatalf("expected handler passthrough")
	}
}
