package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-analyzer/internal/model"
)

func simpleDraw(day int, numbers ...int) *model.Draw {
	return &model.Draw{
		Date:    time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Numbers: numbers,
	}
}

func TestFrequentCombosPairs(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 1, 2, 10, 20, 30),
		simpleDraw(2, 1, 2, 11, 21, 31),
		simpleDraw(3, 1, 2, 12, 22, 32),
		simpleDraw(4, 3, 4, 13, 23, 33),
	}

	combos, err := a.FrequentCombos(draws, 2, 3)
	require.NoError(t, err)
	require.NotEmpty(t, combos)

	assert.Equal(t, []int{1, 2}, combos[0].Values)
	assert.Equal(t, 3, combos[0].Count)
	assert.Len(t, combos, 3)
}

func TestFrequentCombosTriples(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 5, 6, 7, 20, 30),
		simpleDraw(2, 5, 6, 7, 21, 31),
	}

	combos, err := a.FrequentCombos(draws, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7}, combos[0].Values)
	assert.Equal(t, 2, combos[0].Count)

	_, err = a.FrequentCombos(nil, 3, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestConsecutiveRuns(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 1, 2, 10, 20, 30),  // one consecutive pair
		simpleDraw(2, 3, 4, 5, 20, 30),   // two consecutive pairs
		simpleDraw(3, 1, 10, 20, 30, 40), // none
		simpleDraw(4, 7, 9, 11, 13, 15),  // none
	}

	report, err := a.ConsecutiveRuns(draws)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalWithConsecutive)
	assert.InDelta(t, 50.0, report.Percentage, 1e-9)
	assert.Equal(t, 2, report.Distribution[0])
	assert.Equal(t, 1, report.Distribution[1])
	assert.Equal(t, 1, report.Distribution[2])
	assert.Len(t, report.Examples, 2)
}

func TestDecadeDistribution(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 1, 11, 21, 31, 41), // one per bucket
		simpleDraw(2, 2, 12, 22, 32, 42), // one per bucket
		simpleDraw(3, 1, 2, 3, 4, 5),     // all in first bucket
	}

	report, err := a.DecadeDistribution(draws)
	require.NoError(t, err)
	require.Len(t, report.BucketCounts, 5)
	assert.Equal(t, 7, report.BucketCounts[0])
	assert.Equal(t, 2, report.BucketCounts[4])
	assert.Equal(t, []int{1, 1, 1, 1, 1}, report.CommonShape)
	assert.Equal(t, 2, report.ShapeCount)
}

func TestTerminalDigits(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 7, 17, 27, 30, 41), // three numbers ending in 7
		simpleDraw(2, 1, 12, 23, 34, 45), // all distinct digits
	}

	report, err := a.TerminalDigits(draws)
	require.NoError(t, err)
	assert.Equal(t, 3, report.DigitCounts[7])
	assert.Equal(t, 2, report.DigitCounts[1]) // 1 and 41
	assert.Equal(t, 1, report.DrawsWithRepeat)
}

func TestSumTrend(t *testing.T) {
	a := NewAnalyzer(5, 50)

	// First half low sums, second half high sums.
	draws := []*model.Draw{
		simpleDraw(1, 1, 2, 3, 4, 5),      // 15
		simpleDraw(2, 2, 3, 4, 5, 6),      // 20
		simpleDraw(3, 40, 42, 44, 46, 48), // 220
		simpleDraw(4, 41, 43, 45, 47, 49), // 225
	}

	report, err := a.SumTrend(draws, 4)
	require.NoError(t, err)
	assert.Equal(t, TrendRising, report.Trend)
	assert.InDelta(t, 17.5, report.FirstHalfMean, 1e-9)
	assert.InDelta(t, 222.5, report.SecondHalfMean, 1e-9)
	assert.InDelta(t, 120.0, report.Mean, 1e-9)
	assert.Equal(t, 2, report.Bands[BandVeryLow])
	assert.Equal(t, 2, report.Bands[BandVeryHigh])
}

func TestSumTrendStable(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 20, 25, 26, 27, 30), // 128
		simpleDraw(2, 21, 24, 25, 28, 29), // 127
	}

	report, err := a.SumTrend(draws, 2)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, report.Trend)
	assert.Equal(t, 2, report.Bands[BandMedium])
}

func TestSumTrendInsufficient(t *testing.T) {
	a := NewAnalyzer(5, 50)
	_, err := a.SumTrend([]*model.Draw{simpleDraw(1, 1, 2, 3, 4, 5)}, 10)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSumTrendWindowClamped(t *testing.T) {
	a := NewAnalyzer(5, 50)
	draws := []*model.Draw{
		simpleDraw(1, 1, 2, 3, 4, 5),
		simpleDraw(2, 6, 7, 8, 9, 10),
		simpleDraw(3, 11, 12, 13, 14, 15),
	}

	report, err := a.SumTrend(draws, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Window)
}
