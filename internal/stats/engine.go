// Package stats implements the statistics engine and pattern analysis over
// the historical draw set. All computations are pure functions of a draw
// slice ordered by date ascending; recomputing on an unchanged set yields
// identical results.
package stats

import (
	"math"
	"time"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// Engine recomputes per-value statistics for one game. The clock is
// injectable so days-since-last figures are reproducible in tests.
type Engine struct {
	spec game.Spec
	now  func() time.Time
}

// NewEngine creates a statistics engine for the given game spec.
func NewEngine(spec game.Spec) *Engine {
	return &Engine{spec: spec, now: time.Now}
}

// NewEngineAt creates an engine with a fixed clock.
func NewEngineAt(spec game.Spec, now func() time.Time) *Engine {
	return &Engine{spec: spec, now: now}
}

// Compute derives the statistics of every possible main number and
// supplementary value from the draw set. Draws must be ordered by date
// ascending. An empty draw set returns nil: callers treat that state as
// uninitialized and leave prior statistics untouched.
func (e *Engine) Compute(draws []*model.Draw) []model.ValueStatistic {
	if len(draws) == 0 {
		return nil
	}

	out := make([]model.ValueStatistic, 0, e.spec.MainMax+e.spec.SuppMax)
	out = append(out, e.computeKind(draws, model.StatMain)...)
	if e.spec.SuppMax > 0 {
		out = append(out, e.computeKind(draws, model.StatSupp)...)
	}
	return out
}

func (e *Engine) computeKind(draws []*model.Draw, kind model.StatKind) []model.ValueStatistic {
	rangeMax := e.spec.MainMax
	slots := e.spec.MainCount
	if kind == model.StatSupp {
		rangeMax = e.spec.SuppMax
		slots = e.spec.SuppCount
	}

	// One pass over the draws collects, per value, every occurrence date in
	// chronological order.
	occurrences := make(map[int][]time.Time, rangeMax)
	for _, d := range draws {
		values := d.Numbers
		if kind == model.StatSupp {
			values = d.Supplementary
		}
		for _, v := range values {
			occurrences[v] = append(occurrences[v], d.Date)
		}
	}

	total := len(draws)
	expected := float64(total) * float64(slots) / float64(rangeMax)
	today := e.now()
	updatedAt := today

	stats := make([]model.ValueStatistic, 0, rangeMax)
	for v := 1; v <= rangeMax; v++ {
		dates := occurrences[v]
		st := model.ValueStatistic{
			Game:      e.spec.Code,
			Kind:      kind,
			Value:     v,
			Frequency: len(dates),
			UpdatedAt: updatedAt,
		}

		st.Percentage = round2(float64(st.Frequency) / float64(total*slots) * 100)

		if len(dates) > 0 {
			last := dates[len(dates)-1]
			st.LastSeen = &last
			st.DaysSinceLast = daysBetween(last, today)
		} else {
			st.DaysSinceLast = model.DaysNeverSeen
		}

		st.GapMean, st.GapMax = gapStats(dates)

		if expected > 0 {
			st.Deviation = round4((float64(st.Frequency) - expected) / expected)
		}

		stats = append(stats, st)
	}
	return stats
}

// gapStats returns the mean and maximum gap in days between consecutive
// occurrence dates. Fewer than two occurrences yield (0, 0).
func gapStats(dates []time.Time) (mean float64, max int) {
	if len(dates) < 2 {
		return 0, 0
	}
	sum := 0
	for i := 1; i < len(dates); i++ {
		gap := daysBetween(dates[i-1], dates[i])
		sum += gap
		if gap > max {
			max = gap
		}
	}
	return round2(float64(sum) / float64(len(dates)-1)), max
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
