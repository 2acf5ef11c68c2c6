package predictor

import (
	"sort"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// minTrainDraws is the minimum history a test draw must have behind it to be
// scored; earlier draws in the window are skipped.
const minTrainDraws = 50

// BacktestResult summarizes how well frequency ranking over prior draws
// would have matched actual outcomes, against the pure-chance baseline.
type BacktestResult struct {
	Window           int         `json:"window"`
	Evaluated        int         `json:"evaluated"`
	Top5Mean         float64     `json:"top5_mean"`
	Top10Mean        float64     `json:"top10_mean"`
	Top5Chance       float64     `json:"top5_chance"`
	Top10Chance      float64     `json:"top10_chance"`
	Top5Improvement  float64     `json:"top5_improvement_pct"`
	Top10Improvement float64     `json:"top10_improvement_pct"`
	HitDistribution  map[int]int `json:"hit_distribution"` // top10 hits -> draws
}

// Backtest replays the last window draws: for each one it ranks numbers by
// frequency over the 50 draws before it, with no look-ahead, and counts how
// many of the actual numbers appear in the top 5 and top 10 of that ranking.
// Requires at least window+10 draws in total.
func Backtest(spec game.Spec, draws []*model.Draw, window int) (*BacktestResult, error) {
	if window < 1 || len(draws) < window+10 {
		return nil, ErrInsufficientData
	}

	result := &BacktestResult{
		Window:          window,
		HitDistribution: make(map[int]int),
	}
	top5Total, top10Total := 0, 0

	start := len(draws) - window
	for i := start; i < len(draws); i++ {
		if i < minTrainDraws {
			continue
		}

		trainStart := i - minTrainDraws
		ranking := frequencyRanking(spec.MainMax, draws[trainStart:i])

		top5 := hits(draws[i].Numbers, ranking[:5])
		top10 := hits(draws[i].Numbers, ranking[:10])

		top5Total += top5
		top10Total += top10
		result.HitDistribution[top10]++
		result.Evaluated++
	}

	if result.Evaluated == 0 {
		return nil, ErrInsufficientData
	}

	result.Top5Mean = round4(float64(top5Total) / float64(result.Evaluated))
	result.Top10Mean = round4(float64(top10Total) / float64(result.Evaluated))

	// Chance baseline: picking k numbers at random matches k*MainCount/MainMax
	// on average.
	result.Top5Chance = round4(5 * float64(spec.MainCount) / float64(spec.MainMax))
	result.Top10Chance = round4(10 * float64(spec.MainCount) / float64(spec.MainMax))

	if result.Top5Chance > 0 {
		result.Top5Improvement = round1((result.Top5Mean - result.Top5Chance) / result.Top5Chance * 100)
	}
	if result.Top10Chance > 0 {
		result.Top10Improvement = round1((result.Top10Mean - result.Top10Chance) / result.Top10Chance * 100)
	}
	return result, nil
}

// frequencyRanking returns all main numbers ordered by occurrence count in
// the training slice, descending, ties by ascending value.
func frequencyRanking(mainMax int, training []*model.Draw) []int {
	counts := make(map[int]int, mainMax)
	for _, d := range training {
		for _, n := range d.Numbers {
			counts[n]++
		}
	}
	ranking := make([]int, 0, mainMax)
	for v := 1; v <= mainMax; v++ {
		ranking = append(ranking, v)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if counts[ranking[i]] != counts[ranking[j]] {
			return counts[ranking[i]] > counts[ranking[j]]
		}
		return ranking[i] < ranking[j]
	})
	return ranking
}

func hits(actual, predicted []int) int {
	n := 0
	for _, a := range actual {
		if contains(predicted, a) {
			n++
		}
	}
	return n
}
