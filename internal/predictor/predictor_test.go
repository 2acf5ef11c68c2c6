package predictor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

func mustSpec(t testing.TB, code game.Code) game.Spec {
	t.Helper()
	spec, err := game.ByCode(code)
	require.NoError(t, err)
	return spec
}

// syntheticDraws produces a deterministic draw history where low numbers
// appear more often than high ones.
func syntheticDraws(t testing.TB, spec game.Spec, n int) []*model.Draw {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	draws := make([]*model.Draw, n)
	for i := range draws {
		picked := map[int]bool{}
		var numbers []int
		for len(numbers) < spec.MainCount {
			// Bias towards the lower half of the range.
			v := rng.Intn(spec.MainMax) + 1
			if rng.Intn(2) == 0 {
				v = rng.Intn(spec.MainMax/2) + 1
			}
			if !picked[v] {
				picked[v] = true
				numbers = append(numbers, v)
			}
		}
		var supp []int
		pickedSupp := map[int]bool{}
		for len(supp) < spec.SuppCount {
			v := rng.Intn(spec.SuppMax) + 1
			if !pickedSupp[v] {
				pickedSupp[v] = true
				supp = append(supp, v)
			}
		}
		draws[i] = &model.Draw{Date: base.AddDate(0, 0, i*3), Numbers: numbers, Supplementary: supp}
	}
	return draws
}

func TestWeights(t *testing.T) {
	for _, strategy := range []Strategy{StrategyFrequency, StrategyTrend, StrategyOverdue, StrategyBalanced} {
		wf, wt, wo, err := weights(strategy)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, wf+wt+wo, 1e-9, "weights of %s must sum to 1", strategy)
	}

	_, _, _, err := weights("astrology")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestScoreNumberBounds(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	m := New(spec, syntheticDraws(t, spec, 120), rand.New(rand.NewSource(1)))

	for _, strategy := range []Strategy{StrategyFrequency, StrategyTrend, StrategyOverdue, StrategyBalanced} {
		wf, wt, wo, err := weights(strategy)
		require.NoError(t, err)
		for v := 1; v <= spec.MainMax; v++ {
			score := m.ScoreNumber(v, wf, wt, wo)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
	for v := 1; v <= spec.SuppMax; v++ {
		score := m.ScoreSupp(v)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestPredictSelectionShape(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	m := New(spec, syntheticDraws(t, spec, 100), rand.New(rand.NewSource(42)))

	pred, err := m.Predict(StrategyBalanced)
	require.NoError(t, err)

	require.Len(t, pred.Numbers, spec.MainCount)
	require.Len(t, pred.Supplementary, spec.SuppCount)
	assert.NoError(t, spec.ValidateSelection(pred.Numbers, pred.Supplementary))

	// Sorted ascending.
	for i := 1; i < len(pred.Numbers); i++ {
		assert.Less(t, pred.Numbers[i-1], pred.Numbers[i])
	}

	assert.GreaterOrEqual(t, pred.Confidence, 0.0)
	assert.LessOrEqual(t, pred.Confidence, maxConfidence)
	assert.NotEmpty(t, pred.Disclaimer)
	assert.Len(t, pred.NumberScores, spec.MainCount)
}

func TestPredictDeterministicWithSeed(t *testing.T) {
	spec := mustSpec(t, game.EuroDreams)
	draws := syntheticDraws(t, spec, 80)

	a, err := New(spec, draws, rand.New(rand.NewSource(99))).Predict(StrategyFrequency)
	require.NoError(t, err)
	b, err := New(spec, draws, rand.New(rand.NewSource(99))).Predict(StrategyFrequency)
	require.NoError(t, err)

	assert.Equal(t, a.Numbers, b.Numbers)
	assert.Equal(t, a.Supplementary, b.Supplementary)
}

func TestPredictErrors(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)

	empty := New(spec, nil, rand.New(rand.NewSource(1)))
	_, err := empty.Predict(StrategyBalanced)
	assert.ErrorIs(t, err, ErrInsufficientData)

	m := New(spec, syntheticDraws(t, spec, 60), rand.New(rand.NewSource(1)))
	_, err = m.Predict("astrology")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSampleWeightedNoRepeats(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	m := New(spec, syntheticDraws(t, spec, 60), rand.New(rand.NewSource(5)))

	rapid.Check(t, func(t *rapid.T) {
		poolSize := rapid.IntRange(5, 15).Draw(t, "poolSize")
		n := rapid.IntRange(1, 5).Draw(t, "n")

		pool := make([]scored, poolSize)
		for i := range pool {
			pool[i] = scored{
				value: i + 1,
				score: rapid.Float64Range(0, 1).Draw(t, "score"),
			}
		}

		selected := m.sampleWeighted(pool, n)
		require.Len(t, selected, n)

		seen := map[int]bool{}
		for _, v := range selected {
			assert.False(t, seen[v], "value %d sampled twice", v)
			seen[v] = true
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, poolSize)
		}
	})
}

func TestSampleWeightedZeroWeights(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	m := New(spec, syntheticDraws(t, spec, 60), rand.New(rand.NewSource(3)))

	pool := []scored{{value: 1}, {value: 2}, {value: 3}}
	selected := m.sampleWeighted(pool, 3)
	assert.ElementsMatch(t, []int{1, 2, 3}, selected)
}

func TestRankNumbersOrdered(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	m := New(spec, syntheticDraws(t, spec, 100), rand.New(rand.NewSource(1)))

	ranking := m.RankNumbers()
	require.Len(t, ranking, spec.MainMax)
	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].Score, ranking[i].Score)
	}

	suppRanking := m.RankSupp()
	require.Len(t, suppRanking, spec.SuppMax)
}

func TestBacktest(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	draws := syntheticDraws(t, spec, 150)

	result, err := Backtest(spec, draws, 50)
	require.NoError(t, err)

	assert.Equal(t, 50, result.Evaluated)
	assert.InDelta(t, 0.5, result.Top5Chance, 1e-9)
	assert.InDelta(t, 1.0, result.Top10Chance, 1e-9)
	assert.GreaterOrEqual(t, result.Top10Mean, result.Top5Mean)

	total := 0
	for _, count := range result.HitDistribution {
		total += count
	}
	assert.Equal(t, result.Evaluated, total)
}

func TestBacktestInsufficientData(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)

	_, err := Backtest(spec, syntheticDraws(t, spec, 55), 50)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Backtest(spec, nil, 10)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestBacktestSkipsUntrainedDraws(t *testing.T) {
	spec := mustSpec(t, game.EuroMillions)
	// 70 draws, window 60: the first draws in the window lack 50 prior
	// draws and are skipped.
	draws := syntheticDraws(t, spec, 70)

	result, err := Backtest(spec, draws, 60)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Evaluated)
}
