package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/pkg/cache"
	"lottery-analyzer/internal/pkg/metrics"
	"lottery-analyzer/internal/repository"
	"lottery-analyzer/internal/stats"
)

// StatsService recomputes and serves per-value statistics and pattern
// analyses. Recomputes are serialized per process; concurrent triggers
// queue up rather than racing on the statistics table.
type StatsService struct {
	draws      *repository.DrawRepository
	statistics *repository.StatisticRepository
	cache      *cache.Cache

	mu sync.Mutex
}

// NewStatsService creates a statistics service. cache may be nil.
func NewStatsService(draws *repository.DrawRepository, statistics *repository.StatisticRepository, c *cache.Cache) *StatsService {
	return &StatsService{draws: draws, statistics: statistics, cache: c}
}

// Recompute rebuilds every statistic of one game from the stored draws and
// replaces the persisted set. With an empty archive the stored statistics
// are left untouched.
func (s *StatsService) Recompute(ctx context.Context, code game.Code) error {
	spec, err := game.ByCode(code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draws, err := s.draws.List(ctx, code, model.DrawFilter{})
	if err != nil {
		return err
	}

	computed := stats.NewEngine(spec).Compute(draws)
	if computed == nil {
		log.Info().Str("game", string(code)).Msg("no draws stored, keeping existing statistics")
		return nil
	}

	if err := s.statistics.ReplaceAll(ctx, code, computed); err != nil {
		return err
	}

	metrics.StatsRecomputes.WithLabelValues(string(code)).Inc()
	s.cache.InvalidateGame(ctx, code)
	log.Info().Str("game", string(code)).Int("values", len(computed)).
		Int("draws", len(draws)).Msg("statistics recomputed")
	return nil
}

// Statistics returns the stored statistics of one game, optionally
// restricted to one kind.
func (s *StatsService) Statistics(ctx context.Context, code game.Code, kind model.StatKind) ([]model.ValueStatistic, error) {
	if _, err := game.ByCode(code); err != nil {
		return nil, err
	}
	if kind == "" {
		return s.statistics.GetByGame(ctx, code)
	}
	return s.statistics.GetByKind(ctx, code, kind)
}

// HotColdReport splits the statistics of one kind by status.
type HotColdReport struct {
	Hot    []model.ValueStatistic `json:"hot"`
	Cold   []model.ValueStatistic `json:"cold"`
	Normal []model.ValueStatistic `json:"normal"`
}

// HotCold classifies every value of one kind by its deviation status.
func (s *StatsService) HotCold(ctx context.Context, code game.Code, kind model.StatKind) (*HotColdReport, error) {
	statistics, err := s.Statistics(ctx, code, kind)
	if err != nil {
		return nil, err
	}

	report := &HotColdReport{}
	for _, st := range statistics {
		switch st.Status() {
		case model.StatusHot:
			report.Hot = append(report.Hot, st)
		case model.StatusCold:
			report.Cold = append(report.Cold, st)
		default:
			report.Normal = append(report.Normal, st)
		}
	}
	return report, nil
}

// PatternReport bundles the pattern analyses served together.
type PatternReport struct {
	Pairs       []stats.ComboCount         `json:"pairs"`
	Triples     []stats.ComboCount         `json:"triples"`
	Consecutive *stats.ConsecutiveReport   `json:"consecutive"`
	Decades     *stats.DecadeReport        `json:"decades"`
	Terminals   *stats.TerminalDigitReport `json:"terminal_digits"`
	SumTrend    *stats.SumTrendReport      `json:"sum_trend"`
}

// Patterns runs the full pattern analysis over one game's archive. Results
// are cached keyed by the archive size.
func (s *StatsService) Patterns(ctx context.Context, code game.Code, window int) (*PatternReport, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, err
	}

	draws, err := s.draws.List(ctx, code, model.DrawFilter{})
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, stats.ErrInsufficientData
	}

	key := cache.Key(code, "patterns", len(draws))
	var cached PatternReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	analyzer := stats.NewAnalyzer(spec.MainCount, spec.MainMax)
	report := &PatternReport{}
	if report.Pairs, err = analyzer.FrequentCombos(draws, 2, 10); err != nil {
		return nil, err
	}
	if report.Triples, err = analyzer.FrequentCombos(draws, 3, 10); err != nil {
		return nil, err
	}
	if report.Consecutive, err = analyzer.ConsecutiveRuns(draws); err != nil {
		return nil, err
	}
	if report.Decades, err = analyzer.DecadeDistribution(draws); err != nil {
		return nil, err
	}
	if report.Terminals, err = analyzer.TerminalDigits(draws); err != nil {
		return nil, err
	}
	if report.SumTrend, err = analyzer.SumTrend(draws, window); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, report)
	return report, nil
}
