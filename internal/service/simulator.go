package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/generator"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/repository"
	"lottery-analyzer/internal/stats"
)

// SimulatorService replays a bet strategy against the historical archive
// and reports what it would have cost and won.
type SimulatorService struct {
	draws *repository.DrawRepository

	newRNG func() *rand.Rand
}

// NewSimulatorService creates a simulator.
func NewSimulatorService(draws *repository.DrawRepository) *SimulatorService {
	return &SimulatorService{
		draws:  draws,
		newRNG: func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

// SimulationResult summarizes one strategy replay. Payout figures are
// estimates built from average tier payouts, not official amounts.
type SimulationResult struct {
	Strategy  string      `json:"strategy"`
	Draws     int         `json:"draws"`
	Cost      float64     `json:"cost"`
	Winnings  float64     `json:"winnings"`
	ROI       float64     `json:"roi_pct"`
	TierHits  map[int]int `json:"tier_hits"`
	BestTier  int         `json:"best_tier"` // 0 when nothing was won
}

// Run replays the strategy over the last window draws: for each draw, a bet
// is generated from statistics computed on the draws before it, then
// verified against the actual result. Needs more history than the window so
// the first bet has something to train on.
func (s *SimulatorService) Run(ctx context.Context, code game.Code, strategy string, window int) (*SimulationResult, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, err
	}
	draws, err := s.draws.List(ctx, code, model.DrawFilter{})
	if err != nil {
		return nil, err
	}
	if window < 1 {
		window = 50
	}
	if len(draws) < window+10 {
		return nil, stats.ErrInsufficientData
	}

	engine := stats.NewEngine(spec)
	rng := s.newRNG()
	result := &SimulationResult{
		Strategy: strategy,
		Draws:    window,
		TierHits: make(map[int]int),
	}

	start := len(draws) - window
	for i := start; i < len(draws); i++ {
		statistics := engine.Compute(draws[:i])
		gen := generator.New(spec, statistics, rng)

		bet, err := gen.Generate(strategy)
		if err != nil {
			return nil, err
		}

		result.Cost += spec.UnitPrice
		outcome := generator.Verify(spec, bet.Numbers, bet.Supplementary, draws[i])
		if !outcome.Won {
			continue
		}
		result.TierHits[outcome.Tier.Tier]++
		if payout, ok := spec.TierPayouts[outcome.Tier.Tier]; ok {
			result.Winnings += payout
		}
		if result.BestTier == 0 || outcome.Tier.Tier < result.BestTier {
			result.BestTier = outcome.Tier.Tier
		}
	}

	if result.Cost > 0 {
		result.ROI = math.Round((result.Winnings-result.Cost)/result.Cost*1000) / 10
	}
	return result, nil
}
