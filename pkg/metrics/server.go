package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/health"
)

// StartServer serves /metrics, and /healthz when checker is non-nil, until
// the returned shutdown func is called.
func StartServer(port int, g prometheus.Gatherer, checker *health.Checker) (shutdown func(context.Context) error) {
	mux := newMux(g, checker)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}

func newMux(g prometheus.Gatherer, checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	if checker != nil {
		mux.Handle("/healthz", checker.Handler())
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><h1>termrank Metrics</h1><p><a href="/metrics">/metrics</a></p></body></html>`)
	})
	return mux
}
