package predictor

import (
	"sort"
)

// Pool sizes for the sampling step: scoring alone would always surface the
// same values, so the pick is sampled from a top-K pool instead.
const (
	mainPoolSize = 15
	suppPoolSize = 5
)

// Prediction is a scored selection for the next draw, plus the synthetic
// confidence figure. The disclaimer ships with every payload.
type Prediction struct {
	Strategy      Strategy        `json:"strategy"`
	Numbers       []int           `json:"numbers"`
	Supplementary []int           `json:"supplementary"`
	NumberScores  map[int]float64 `json:"number_scores"`
	SuppScores    map[int]float64 `json:"supp_scores"`
	Confidence    float64         `json:"confidence"`
	Disclaimer    string          `json:"disclaimer"`
}

// Disclaimer attached to every prediction.
const Disclaimer = "experimental heuristic - lottery draws are independent random events"

// Predict scores every value under the strategy's weights, restricts to a
// top-K pool, and samples the required counts with probability proportional
// to score. Returns ErrInsufficientData when no draws were loaded and
// ErrUnknownStrategy for an unrecognized tag.
func (m *Model) Predict(strategy Strategy) (*Prediction, error) {
	wf, wt, wo, err := weights(strategy)
	if err != nil {
		return nil, err
	}
	if m.total == 0 {
		return nil, ErrInsufficientData
	}

	numberScores := make(map[int]float64, m.spec.MainMax)
	for v := 1; v <= m.spec.MainMax; v++ {
		numberScores[v] = m.ScoreNumber(v, wf, wt, wo)
	}
	suppScores := make(map[int]float64, m.spec.SuppMax)
	for v := 1; v <= m.spec.SuppMax; v++ {
		suppScores[v] = m.ScoreSupp(v)
	}

	mainPool := sortedByScore(numberScores)
	if len(mainPool) > mainPoolSize {
		mainPool = mainPool[:mainPoolSize]
	}
	numbers := m.sampleWeighted(mainPool, m.spec.MainCount)
	sort.Ints(numbers)

	var supp []int
	if m.spec.SuppCount > 0 {
		suppPool := sortedByScore(suppScores)
		if len(suppPool) > suppPoolSize {
			suppPool = suppPool[:suppPoolSize]
		}
		supp = m.sampleWeighted(suppPool, m.spec.SuppCount)
		sort.Ints(supp)
	}

	pred := &Prediction{
		Strategy:      strategy,
		Numbers:       numbers,
		Supplementary: supp,
		NumberScores:  make(map[int]float64, len(numbers)),
		SuppScores:    make(map[int]float64, len(supp)),
		Confidence:    confidence(numberScores),
		Disclaimer:    Disclaimer,
	}
	for _, n := range numbers {
		pred.NumberScores[n] = numberScores[n]
	}
	for _, s := range supp {
		pred.SuppScores[s] = suppScores[s]
	}
	return pred, nil
}

// sampleWeighted picks n distinct values from the pool, each draw weighted
// by score: a uniform point in [0, total) walks the cumulative weights, the
// selected entry is removed, and the draw repeats. When every remaining
// weight is zero the pick falls back to uniform random choice, so the
// requested count is always filled while the pool lasts.
func (m *Model) sampleWeighted(pool []scored, n int) []int {
	available := append([]scored(nil), pool...)
	selected := make([]int, 0, n)

	for len(selected) < n && len(available) > 0 {
		total := 0.0
		for _, c := range available {
			total += c.score
		}

		idx := 0
		if total == 0 {
			idx = m.rng.Intn(len(available))
		} else {
			r := m.rng.Float64() * total
			acc := 0.0
			for i, c := range available {
				acc += c.score
				if acc >= r {
					idx = i
					break
				}
			}
		}

		selected = append(selected, available[idx].value)
		available = append(available[:idx], available[idx+1:]...)
	}
	return selected
}

// confidence derives the synthetic confidence from the variance of all
// scores: flat scores mean the model has nothing to say. Capped at
// maxConfidence by design.
func confidence(scores map[int]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	avg := total / float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - avg) * (s - avg)
	}
	variance /= float64(len(scores))

	c := variance * 100
	if c > maxConfidence {
		c = maxConfidence
	}
	return round1(c)
}

// ValueRank pairs a value with its score and features for ranking output.
type ValueRank struct {
	Value    int      `json:"value"`
	Score    float64  `json:"score"`
	Features Features `json:"features"`
}

// RankNumbers returns every main number ordered by balanced score
// descending.
func (m *Model) RankNumbers() []ValueRank {
	wf, wt, wo, _ := weights(StrategyBalanced)
	ranking := make([]ValueRank, 0, m.spec.MainMax)
	for v := 1; v <= m.spec.MainMax; v++ {
		ranking = append(ranking, ValueRank{
			Value:    v,
			Score:    m.ScoreNumber(v, wf, wt, wo),
			Features: m.mainFeatures[v],
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].Value < ranking[j].Value
	})
	return ranking
}

// RankSupp returns every supplementary value ordered by score descending.
func (m *Model) RankSupp() []ValueRank {
	ranking := make([]ValueRank, 0, m.spec.SuppMax)
	for v := 1; v <= m.spec.SuppMax; v++ {
		ranking = append(ranking, ValueRank{
			Value:    v,
			Score:    m.ScoreSupp(v),
			Features: m.suppFeatures[v],
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].Value < ranking[j].Value
	})
	return ranking
}
