package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/health"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DocumentsTotal.WithLabelValues("ok").Add(2)
	m.ArtifactsWritten.WithLabelValues("scores").Inc()
	m.CorpusTerms.Set(3)
	m.PhaseDuration.WithLabelValues("normalize_all").Observe(0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CorpusTerms))

	count, err := testutil.GatherAndCount(reg, "termrank_phase_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewIsolatedPerRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.CacheRequests.WithLabelValues("hit").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `termrank_cache_requests_total{result="hit"} 1`), body)
}

func TestMuxRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	checker := health.NewChecker()
	checker.Register("store", func(context.Context) error { return errors.New("closed") })

	mux := newMux(reg, checker)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newMux(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, rec.Body.String(), "termrank Metrics", "falls through to the index page")
}
