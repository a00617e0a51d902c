package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCalculation(t *testing.T) {
	m := New()

	m.ObserveCalculation("calculate", true)
	m.ObserveCalculation("calculate", true)
	m.ObserveCalculation("calculate", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues("calculate", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("calculate", OutcomeNoResult)))
}

func TestObserveCacheLookup(t *testing.T) {
	m := New()

	m.ObserveCacheLookup(CacheHit)
	m.ObserveCacheLookup(CacheMiss)
	m.ObserveCacheLookup(CacheMiss)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheMiss)))
}

func TestInstrumentRecordsStatus(t *testing.T) {
	m := New()
	handler := m.Instrument("/api/test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/test", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration, "mortgage_http_request_duration_seconds"))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveCalculation("compare", true)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `mortgage_calculations_total{operation="compare",outcome="ok"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
