// Package main is the entry point for the lottery analyzer API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/config"
	"lottery-analyzer/internal/pkg/cache"
	"lottery-analyzer/internal/pkg/db"
	"lottery-analyzer/internal/pkg/metrics"
	"lottery-analyzer/internal/repository"
	"lottery-analyzer/internal/server"
	"lottery-analyzer/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize the prediction cache (nil when Redis is not configured)
	predictionCache, err := cache.New(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer predictionCache.Close()

	// Initialize repositories
	drawRepo := repository.NewDrawRepository(dbPool.Pool)
	statRepo := repository.NewStatisticRepository(dbPool.Pool)
	betRepo := repository.NewBetRepository(dbPool.Pool)

	// Initialize services
	statsService := service.NewStatsService(drawRepo, statRepo, predictionCache)
	drawService := service.NewDrawService(drawRepo, statsService, cfg.Scraper.FirstYear, cfg.Scraper.Timeout)
	predictionService := service.NewPredictionService(drawRepo, predictionCache)
	betService := service.NewBetService(betRepo, drawRepo, statRepo)
	simulatorService := service.NewSimulatorService(drawRepo)

	// Metrics sidecar
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go metricsServer.Start()
	}

	// HTTP API
	api := server.New(&cfg.Server, dbPool,
		drawService, statsService, predictionService, betService, simulatorService)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal().Err(err).Msg("Server failed")

	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed, forcing close")
			_ = srv.Close()
		}
		if metricsServer != nil {
			_ = metricsServer.Shutdown(shutdownCtx)
		}
	}

	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create draws table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draws (
			id BIGSERIAL PRIMARY KEY,
			game VARCHAR(32) NOT NULL,
			draw_date DATE NOT NULL,
			numbers INTEGER[] NOT NULL,
			supplementary INTEGER[] NOT NULL DEFAULT '{}',
			jackpot DOUBLE PRECISION,
			had_winner BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (game, draw_date)
		);
		CREATE INDEX IF NOT EXISTS idx_draws_game_date ON draws(game, draw_date DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: draws table created")

	// Migration 2: Create statistics table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS statistics (
			game VARCHAR(32) NOT NULL,
			kind VARCHAR(8) NOT NULL,
			value INTEGER NOT NULL,
			frequency INTEGER NOT NULL,
			percentage DOUBLE PRECISION NOT NULL,
			last_seen DATE,
			days_since_last INTEGER NOT NULL,
			gap_mean DOUBLE PRECISION NOT NULL,
			gap_max INTEGER NOT NULL,
			deviation DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (game, kind, value)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: statistics table created")

	// Migration 3: Create bets table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bets (
			id UUID PRIMARY KEY,
			game VARCHAR(32) NOT NULL,
			strategy VARCHAR(32) NOT NULL,
			numbers INTEGER[] NOT NULL,
			supplementary INTEGER[] NOT NULL DEFAULT '{}',
			main_matches INTEGER,
			supp_matches INTEGER,
			verified_draw_id BIGINT REFERENCES draws(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_bets_game_time ON bets(game, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: bets table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
