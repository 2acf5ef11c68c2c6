package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/generator"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/pkg/metrics"
	"lottery-analyzer/internal/repository"
)

// ErrNoDrawForDate is returned when a verification names a date without a
// stored draw.
var ErrNoDrawForDate = errors.New("no draw stored for that date")

// BetService generates, persists and verifies bets.
type BetService struct {
	bets       *repository.BetRepository
	draws      *repository.DrawRepository
	statistics *repository.StatisticRepository

	newRNG func() *rand.Rand
}

// NewBetService creates a bet service.
func NewBetService(bets *repository.BetRepository, draws *repository.DrawRepository, statistics *repository.StatisticRepository) *BetService {
	return &BetService{
		bets:       bets,
		draws:      draws,
		statistics: statistics,
		newRNG:     func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

func (s *BetService) generator(ctx context.Context, code game.Code) (*generator.Generator, game.Spec, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, game.Spec{}, err
	}
	stats, err := s.statistics.GetByGame(ctx, code)
	if err != nil {
		return nil, game.Spec{}, err
	}
	return generator.New(spec, stats, s.newRNG()), spec, nil
}

// Generate produces and stores a batch of distinct bets.
func (s *BetService) Generate(ctx context.Context, code game.Code, strategy string, count int) ([]*model.GeneratedBet, error) {
	gen, spec, err := s.generator(ctx, code)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}

	bets, err := gen.GenerateBatch(strategy, count)
	if err != nil {
		return nil, err
	}
	if err := s.bets.InsertBatch(ctx, bets); err != nil {
		return nil, err
	}

	metrics.BetsGenerated.WithLabelValues(string(spec.Code), strategy).Add(float64(len(bets)))
	return bets, nil
}

// GenerateMulti produces a multi-bet with its combination count and cost.
// Multi-bets are priced, reported and not persisted.
func (s *BetService) GenerateMulti(ctx context.Context, code game.Code, strategy string, mainSize, suppSize int) (*model.MultiBet, error) {
	gen, spec, err := s.generator(ctx, code)
	if err != nil {
		return nil, err
	}
	multi, err := gen.GenerateMulti(strategy, mainSize, suppSize)
	if err != nil {
		return nil, err
	}
	metrics.BetsGenerated.WithLabelValues(string(spec.Code), strategy+"_multi").Inc()
	return multi, nil
}

// PriceMulti validates an explicit multi-bet selection and prices it.
func (s *BetService) PriceMulti(ctx context.Context, code game.Code, numbers, supplementary []int) (*model.MultiBet, error) {
	gen, _, err := s.generator(ctx, code)
	if err != nil {
		return nil, err
	}
	return gen.NewMultiBet("manual", numbers, supplementary)
}

// List returns the most recent stored bets of one game.
func (s *BetService) List(ctx context.Context, code game.Code, limit int) ([]*model.GeneratedBet, error) {
	if _, err := game.ByCode(code); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.bets.ListByGame(ctx, code, limit)
}

// VerifyStored checks a stored bet against the draw of a given date and
// records the outcome.
func (s *BetService) VerifyStored(ctx context.Context, betID string, date time.Time) (*generator.VerificationResult, error) {
	bet, err := s.bets.GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	spec, err := game.ByCode(bet.Game)
	if err != nil {
		return nil, err
	}

	draw, err := s.draws.GetByDate(ctx, bet.Game, date)
	if err != nil {
		if errors.Is(err, repository.ErrDrawNotFound) {
			return nil, ErrNoDrawForDate
		}
		return nil, err
	}

	result := generator.VerifyBet(spec, bet, draw)
	if err := s.bets.MarkVerified(ctx, bet.ID, result.MainMatches, result.SuppMatches, draw.ID); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifySelection checks an ad-hoc selection against the draw of a given
// date without persisting anything.
func (s *BetService) VerifySelection(ctx context.Context, code game.Code, numbers, supplementary []int, date time.Time) (*generator.VerificationResult, error) {
	spec, err := game.ByCode(code)
	if err != nil {
		return nil, err
	}
	if err := spec.ValidateSelection(numbers, supplementary); err != nil {
		return nil, err
	}

	draw, err := s.draws.GetByDate(ctx, code, date)
	if err != nil {
		if errors.Is(err, repository.ErrDrawNotFound) {
			return nil, ErrNoDrawForDate
		}
		return nil, err
	}

	result := generator.Verify(spec, numbers, supplementary, draw)
	return &result, nil
}
