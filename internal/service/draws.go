// Package service implements the application logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/importer"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/pkg/metrics"
	"lottery-analyzer/internal/repository"
)

// DrawService manages the draw archive: queries and imports.
type DrawService struct {
	draws         *repository.DrawRepository
	stats         *StatsService
	firstYear     int
	scrapeTimeout time.Duration
}

// NewDrawService creates a draw service. The stats service is notified
// after successful imports so statistics stay in step with the archive.
func NewDrawService(draws *repository.DrawRepository, stats *StatsService, firstYear int, scrapeTimeout time.Duration) *DrawService {
	return &DrawService{draws: draws, stats: stats, firstYear: firstYear, scrapeTimeout: scrapeTimeout}
}

// List returns draws matching the filter, oldest first.
func (s *DrawService) List(ctx context.Context, code game.Code, filter model.DrawFilter) ([]*model.Draw, error) {
	if _, err := game.ByCode(code); err != nil {
		return nil, err
	}
	return s.draws.List(ctx, code, filter)
}

// Latest returns the most recent draw of one game.
func (s *DrawService) Latest(ctx context.Context, code game.Code) (*model.Draw, error) {
	if _, err := game.ByCode(code); err != nil {
		return nil, err
	}
	return s.draws.Latest(ctx, code)
}

// Count returns the archive size of one game.
func (s *DrawService) Count(ctx context.Context, code game.Code) (int, error) {
	if _, err := game.ByCode(code); err != nil {
		return 0, err
	}
	return s.draws.Count(ctx, code)
}

// ImportOptions selects what an import run covers.
type ImportOptions struct {
	Year      int  // single archive year; 0 means latest year
	All       bool // full archive from the configured first year
	DryRun    bool // validate and report without writing
	SkipStats bool // skip the statistics recompute after importing
}

// ImportFromWeb scrapes the archive pages and runs the import pipeline.
// Zero new draws is a normal outcome, not an error.
func (s *DrawService) ImportFromWeb(ctx context.Context, code game.Code, opts ImportOptions) (model.ImportSummary, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return model.ImportSummary{}, err
	}

	scraper := importer.NewScraper(spec, s.scrapeTimeout)
	var candidates []model.CandidateDraw
	switch {
	case opts.All:
		candidates, err = scraper.FetchYears(ctx, s.firstYear, time.Now().Year())
	case opts.Year > 0:
		candidates, err = scraper.FetchYear(ctx, opts.Year)
	default:
		candidates, err = scraper.FetchYear(ctx, time.Now().Year())
	}
	if err != nil {
		metrics.ImportRuns.WithLabelValues(string(code), "error").Inc()
		return model.ImportSummary{}, fmt.Errorf("fetching results: %w", err)
	}

	return s.runImport(ctx, spec, candidates, "web", opts)
}

// ImportCSV runs the import pipeline over a CSV export.
func (s *DrawService) ImportCSV(ctx context.Context, code game.Code, r io.Reader, opts ImportOptions) (model.ImportSummary, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return model.ImportSummary{}, err
	}

	candidates, rowErrs, err := importer.NewCSVReader(spec).Read(r)
	if err != nil {
		metrics.ImportRuns.WithLabelValues(string(code), "error").Inc()
		return model.ImportSummary{}, err
	}
	for _, rowErr := range rowErrs {
		log.Warn().Err(rowErr).Str("game", string(code)).Msg("skipping csv row")
	}

	summary, err := s.runImport(ctx, spec, candidates, "csv", opts)
	summary.Errors += len(rowErrs)
	return summary, err
}

func (s *DrawService) runImport(ctx context.Context, spec game.Spec, candidates []model.CandidateDraw, source string, opts ImportOptions) (model.ImportSummary, error) {
	store := importer.DrawStore(s.draws)
	if opts.DryRun {
		store = dryRunStore{real: s.draws}
	}

	summary, err := importer.NewPipeline(spec, store).Run(ctx, candidates)
	if err != nil {
		metrics.ImportRuns.WithLabelValues(string(spec.Code), "error").Inc()
		return summary, err
	}
	metrics.ImportRuns.WithLabelValues(string(spec.Code), "ok").Inc()
	metrics.DrawsImported.WithLabelValues(string(spec.Code), source).Add(float64(summary.Imported))

	if summary.Imported > 0 && !opts.DryRun && !opts.SkipStats && s.stats != nil {
		if err := s.stats.Recompute(ctx, spec.Code); err != nil {
			// The draws are in; a failed recompute can be retried on its own.
			log.Error().Err(err).Str("game", string(spec.Code)).
				Msg("statistics recompute after import failed")
		}
	}
	return summary, nil
}

// dryRunStore answers existence checks from the real repository but turns
// inserts into no-ops.
type dryRunStore struct {
	real *repository.DrawRepository
}

func (d dryRunStore) ExistsByDate(ctx context.Context, code game.Code, date time.Time) (bool, error) {
	return d.real.ExistsByDate(ctx, code, date)
}

func (d dryRunStore) InsertBatch(context.Context, []*model.Draw) error {
	return nil
}
