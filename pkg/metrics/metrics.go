// Package metrics defines the Prometheus collectors recorded during a
// termrank run and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	DocumentsTotal   *prometheus.CounterVec
	PhaseDuration    *prometheus.HistogramVec
	CorpusTerms      prometheus.Gauge
	CorpusDocuments  prometheus.Gauge
	ArtifactsWritten *prometheus.CounterVec
	CacheRequests    *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New creates all collectors and registers them with reg. Passing a fresh
// prometheus.NewRegistry() keeps independent runs (and tests) isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termrank_documents_total",
				Help: "Documents processed by outcome (ok, missing, encoding_error, io_error).",
			},
			[]string{"status"},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termrank_phase_duration_seconds",
				Help:    "Wall time spent in each pipeline phase.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"phase"},
		),
		CorpusTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termrank_corpus_terms",
				Help: "Distinct terms in the corpus vocabulary of the last run.",
			},
		),
		CorpusDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termrank_corpus_documents",
				Help: "Documents counted in N for the last run.",
			},
		),
		ArtifactsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termrank_artifacts_written_total",
				Help: "Output artifacts written by kind (normalized, scores).",
			},
			[]string{"kind"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termrank_cache_requests_total",
				Help: "Normalized-text cache lookups by result (hit, miss).",
			},
			[]string{"result"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termrank_events_published_total",
				Help: "Scored-document events by status (ok, error).",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.DocumentsTotal,
		m.PhaseDuration,
		m.CorpusTerms,
		m.CorpusDocuments,
		m.ArtifactsWritten,
		m.CacheRequests,
		m.EventsPublished,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
