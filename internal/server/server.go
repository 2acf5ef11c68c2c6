// Package server exposes the analyzer over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lottery-analyzer/internal/config"
	"lottery-analyzer/internal/pkg/db"
	"lottery-analyzer/internal/service"
)

// Server wires the services into the HTTP router.
type Server struct {
	cfg         *config.ServerConfig
	pool        *db.Pool
	draws       *service.DrawService
	stats       *service.StatsService
	predictions *service.PredictionService
	bets        *service.BetService
	simulator   *service.SimulatorService
}

// New creates the HTTP server facade.
func New(cfg *config.ServerConfig, pool *db.Pool,
	draws *service.DrawService, stats *service.StatsService,
	predictions *service.PredictionService, bets *service.BetService,
	simulator *service.SimulatorService) *Server {
	return &Server{
		cfg:         cfg,
		pool:        pool,
		draws:       draws,
		stats:       stats,
		predictions: predictions,
		bets:        bets,
		simulator:   simulator,
	}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)

		r.Route("/games/{game}", func(r chi.Router) {
			// Archive reads
			r.Get("/draws", s.handleListDraws)
			r.Get("/draws/latest", s.handleLatestDraw)

			// Statistics and patterns
			r.Get("/stats", s.handleStatistics)
			r.Get("/stats/hot-cold", s.handleHotCold)
			r.Get("/patterns", s.handlePatterns)

			// Prediction
			r.Get("/predictions", s.handlePredict)
			r.Get("/rankings", s.handleRankings)
			r.Get("/backtest", s.handleBacktest)

			// Bets
			r.Get("/bets", s.handleListBets)
			r.Post("/bets/verify", s.handleVerifySelection)
			r.Get("/simulations", s.handleSimulate)

			// Mutations require the API token when one is configured.
			r.Group(func(r chi.Router) {
				r.Use(bearerAuth(s.cfg.APIToken))
				r.Post("/imports", s.handleImportWeb)
				r.Post("/imports/csv", s.handleImportCSV)
				r.Post("/stats/recompute", s.handleRecompute)
				r.Post("/bets", s.handleGenerateBets)
				r.Post("/bets/multi", s.handleMultiBet)
			})
		})

		r.Route("/bets/{betID}", func(r chi.Router) {
			r.Use(bearerAuth(s.cfg.APIToken))
			r.Post("/verify", s.handleVerifyStored)
		})
	})

	return r
}
