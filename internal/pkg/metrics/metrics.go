// Package metrics exposes Prometheus counters for the analyzer and serves
// them on a sidecar HTTP listener next to a liveness endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Application metrics.
var (
	DrawsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_draws_imported_total",
		Help: "Draws imported into the repository, by game and source.",
	}, []string{"game", "source"})

	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_import_runs_total",
		Help: "Import pipeline runs, by game and outcome.",
	}, []string{"game", "outcome"})

	StatsRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_stats_recomputes_total",
		Help: "Statistics recomputations, by game.",
	}, []string{"game"})

	BetsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_bets_generated_total",
		Help: "Bets generated, by game and strategy.",
	}, []string{"game", "strategy"})

	PredictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_predictions_served_total",
		Help: "Predictions served, by game and strategy.",
	}, []string{"game", "strategy"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lottery_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// Server is the metrics sidecar: /metrics plus /healthz.
type Server struct {
	srv *http.Server
}

// NewServer builds the sidecar listener on the given port.
func NewServer(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves until the listener closes. Intended to run in its own
// goroutine.
func (s *Server) Start() {
	log.Info().Str("addr", s.srv.Addr).Msg("metrics listener started")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics listener failed")
	}
}

// Shutdown stops the sidecar gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
