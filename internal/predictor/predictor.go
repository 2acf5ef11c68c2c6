// Package predictor implements the heuristic scoring model over historical
// draws. It is not a trained model and cannot forecast lottery results:
// draws are independent random events. The scores only summarize frequency,
// recent trend and overdue-ness, and the synthetic confidence figure is
// deliberately capped low.
package predictor

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// Errors for prediction operations.
var (
	ErrInsufficientData = errors.New("insufficient draw history")
	ErrUnknownStrategy  = errors.New("unknown prediction strategy")
)

// Strategy selects the weight vector applied to the component scores.
type Strategy string

// Prediction strategies. Each is a fixed (frequency, trend, overdue) weight
// triple summing to 1.
const (
	StrategyFrequency Strategy = "frequency"
	StrategyTrend     Strategy = "trend"
	StrategyOverdue   Strategy = "overdue"
	StrategyBalanced  Strategy = "balanced"
)

// recentWindow is the number of trailing draws used for the recent-trend
// feature.
const recentWindow = 50

// maxConfidence caps the synthetic confidence percentage. A lottery cannot
// be predicted; the cap keeps the figure honest.
const maxConfidence = 50.0

// Features holds the per-value statistics the scorer derives from the draw
// sequence. Gaps here are measured in draws, not days.
type Features struct {
	Frequency      int     `json:"frequency"`
	FrequencyNorm  float64 `json:"frequency_norm"`
	Deviation      float64 `json:"deviation"`
	GapMean        float64 `json:"gap_mean"`
	DrawsSinceLast int     `json:"draws_since_last"`
	Trend          float64 `json:"trend"`
	RecentCount    int     `json:"recent_count"`
	Hot            bool    `json:"hot"`
	Overdue        bool    `json:"overdue"`
}

// Model scores values for one game from its draw history. The random source
// is injected so sampling is reproducible in tests.
type Model struct {
	spec  game.Spec
	total int
	rng   *rand.Rand

	mainFeatures map[int]Features
	suppFeatures map[int]Features
}

// New builds a model from draws ordered by date ascending.
func New(spec game.Spec, draws []*model.Draw, rng *rand.Rand) *Model {
	m := &Model{
		spec:         spec,
		total:        len(draws),
		rng:          rng,
		mainFeatures: make(map[int]Features, spec.MainMax),
		suppFeatures: make(map[int]Features, spec.SuppMax),
	}
	if m.total == 0 {
		return m
	}
	for v := 1; v <= spec.MainMax; v++ {
		m.mainFeatures[v] = computeFeatures(draws, v, false, spec.MainProbability())
	}
	for v := 1; v <= spec.SuppMax; v++ {
		m.suppFeatures[v] = computeFeatures(draws, v, true, spec.SuppProbability())
	}
	return m
}

// computeFeatures scans the draw sequence once for a single value.
func computeFeatures(draws []*model.Draw, value int, supp bool, probability float64) Features {
	total := len(draws)
	var indexes []int
	recent := 0
	recentStart := total - recentWindow

	for i, d := range draws {
		values := d.Numbers
		if supp {
			values = d.Supplementary
		}
		if !contains(values, value) {
			continue
		}
		indexes = append(indexes, i)
		if i >= recentStart {
			recent++
		}
	}

	f := Features{
		Frequency:     len(indexes),
		FrequencyNorm: float64(len(indexes)) / float64(total),
		RecentCount:   recent,
	}

	expected := float64(total) * probability
	if expected > 0 {
		f.Deviation = (float64(f.Frequency) - expected) / expected
	}

	if len(indexes) > 1 {
		sum := 0
		for i := 1; i < len(indexes); i++ {
			sum += indexes[i] - indexes[i-1]
		}
		f.GapMean = float64(sum) / float64(len(indexes)-1)
	}

	if len(indexes) > 0 {
		f.DrawsSinceLast = total - 1 - indexes[len(indexes)-1]
	} else {
		f.DrawsSinceLast = total
	}

	// Recent frequency vs historical frequency. With fewer than recentWindow
	// draws the two coincide and the trend is zero.
	recentFreq := f.FrequencyNorm
	if total >= recentWindow {
		recentFreq = float64(recent) / float64(recentWindow)
	}
	f.Trend = recentFreq - f.FrequencyNorm

	f.Hot = float64(recent) >= probability*float64(recentWindow)
	f.Overdue = f.GapMean > 0 && float64(f.DrawsSinceLast) > f.GapMean*1.5
	return f
}

// weights returns the (frequency, trend, overdue) weight triple for a
// strategy. An unknown tag is an explicit error, never a silent default.
func weights(strategy Strategy) (wf, wt, wo float64, err error) {
	switch strategy {
	case StrategyFrequency:
		return 0.7, 0.2, 0.1, nil
	case StrategyTrend:
		return 0.2, 0.6, 0.2, nil
	case StrategyOverdue:
		return 0.1, 0.2, 0.7, nil
	case StrategyBalanced:
		return 0.33, 0.33, 0.34, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// ScoreNumber computes the weighted score of one main number in [0, 1].
func (m *Model) ScoreNumber(value int, wf, wt, wo float64) float64 {
	f, ok := m.mainFeatures[value]
	if !ok {
		return 0.5
	}

	// Frequency component, capped at 1.5x the theoretical probability.
	ceiling := 1.5 * m.spec.MainProbability()
	freqScore := math.Min(f.FrequencyNorm/ceiling, 1)

	// Trend component: neutral at 0.5, amplified by 5 and clamped.
	trendScore := clamp(0.5+f.Trend*5, 0, 1)

	// Overdue component: saturates at twice the expected gap.
	overdueScore := math.Min(float64(f.DrawsSinceLast)/(2*m.spec.ExpectedMainGap()), 1)

	return round4(wf*freqScore + wt*trendScore + wo*overdueScore)
}

// ScoreSupp computes the score of one supplementary value: an even split of
// the frequency and overdue components.
func (m *Model) ScoreSupp(value int) float64 {
	f, ok := m.suppFeatures[value]
	if !ok {
		return 0.5
	}

	ceiling := 1.5 * m.spec.SuppProbability()
	freqScore := math.Min(f.FrequencyNorm/ceiling, 1)
	overdueScore := math.Min(float64(f.DrawsSinceLast)/(2*m.spec.ExpectedSuppGap()), 1)

	return round4(0.5*freqScore + 0.5*overdueScore)
}

// MainFeatures returns the features of a main number.
func (m *Model) MainFeatures(value int) (Features, bool) {
	f, ok := m.mainFeatures[value]
	return f, ok
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// sortedByScore returns value/score pairs sorted by score descending, ties
// by ascending value so the ordering is stable across runs.
func sortedByScore(scores map[int]float64) []scored {
	out := make([]scored, 0, len(scores))
	for v, s := range scores {
		out = append(out, scored{value: v, score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].value < out[j].value
	})
	return out
}

type scored struct {
	value int
	score float64
}
