package service

import (
	"context"
	"math/rand"
	"time"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/pkg/cache"
	"lottery-analyzer/internal/pkg/metrics"
	"lottery-analyzer/internal/predictor"
	"lottery-analyzer/internal/repository"
)

// PredictionService serves heuristic predictions, rankings and backtests.
type PredictionService struct {
	draws *repository.DrawRepository
	cache *cache.Cache

	// newRNG builds the sampler's random source. Overridden in tests for
	// deterministic output.
	newRNG func() *rand.Rand
}

// NewPredictionService creates a prediction service. cache may be nil.
func NewPredictionService(draws *repository.DrawRepository, c *cache.Cache) *PredictionService {
	return &PredictionService{
		draws:  draws,
		cache:  c,
		newRNG: func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

func (s *PredictionService) model(ctx context.Context, code game.Code) (*predictor.Model, game.Spec, int, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, game.Spec{}, 0, err
	}
	draws, err := s.draws.List(ctx, code, model.DrawFilter{})
	if err != nil {
		return nil, game.Spec{}, 0, err
	}
	return predictor.New(spec, draws, s.newRNG()), spec, len(draws), nil
}

// Predict produces a scored selection under the named strategy. Sampling is
// random, so predictions are not cached; two calls legitimately differ.
func (s *PredictionService) Predict(ctx context.Context, code game.Code, strategy predictor.Strategy) (*predictor.Prediction, error) {
	m, spec, _, err := s.model(ctx, code)
	if err != nil {
		return nil, err
	}
	pred, err := m.Predict(strategy)
	if err != nil {
		return nil, err
	}
	metrics.PredictionsServed.WithLabelValues(string(spec.Code), string(strategy)).Inc()
	return pred, nil
}

// Rankings returns every value ordered by balanced score. Deterministic for
// a given archive, so the result is cached.
type Rankings struct {
	Numbers       []predictor.ValueRank `json:"numbers"`
	Supplementary []predictor.ValueRank `json:"supplementary"`
}

// Rank computes the full value rankings of one game.
func (s *PredictionService) Rank(ctx context.Context, code game.Code) (*Rankings, error) {
	m, _, drawCount, err := s.model(ctx, code)
	if err != nil {
		return nil, err
	}
	if drawCount == 0 {
		return nil, predictor.ErrInsufficientData
	}

	key := cache.Key(code, "rankings", drawCount)
	var cached Rankings
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	rankings := &Rankings{
		Numbers:       m.RankNumbers(),
		Supplementary: m.RankSupp(),
	}
	s.cache.Set(ctx, key, rankings)
	return rankings, nil
}

// Backtest replays frequency ranking over the trailing window of draws.
func (s *PredictionService) Backtest(ctx context.Context, code game.Code, window int) (*predictor.BacktestResult, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, err
	}
	draws, err := s.draws.List(ctx, code, model.DrawFilter{})
	if err != nil {
		return nil, err
	}

	key := cache.Key(code, "backtest", len(draws)*1000+window)
	var cached predictor.BacktestResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := predictor.Backtest(spec, draws, window)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, result)
	return result, nil
}
