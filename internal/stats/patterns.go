package stats

import (
	"errors"
	"sort"

	"lottery-analyzer/internal/model"
)

// ErrInsufficientData is returned by read-side computations that have no
// draws (or too few) to work with. Callers check it instead of indexing
// into empty results.
var ErrInsufficientData = errors.New("insufficient data")

// Sum trend classifications.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// Sum band names, ordered low to high.
const (
	BandVeryLow  = "very_low"
	BandLow      = "low"
	BandMedium   = "medium"
	BandHigh     = "high"
	BandVeryHigh = "very_high"
)

// Analyzer performs pattern computations over the draw set. Each operation
// is independent and re-derivable; none mutates stored state.
type Analyzer struct {
	spec gameSpec
}

// gameSpec is the subset of game.Spec the analyzer needs. Kept as an
// interface-free struct copy so pattern functions stay trivially testable.
type gameSpec struct {
	mainCount int
	mainMax   int
}

// NewAnalyzer creates a pattern analyzer for the given game dimensions.
func NewAnalyzer(mainCount, mainMax int) *Analyzer {
	return &Analyzer{spec: gameSpec{mainCount: mainCount, mainMax: mainMax}}
}

// ComboCount is one k-subset of main numbers and how often it was drawn.
type ComboCount struct {
	Values []int `json:"values"`
	Count  int   `json:"count"`
}

// FrequentCombos counts every unordered k-subset of each draw's main numbers
// and returns the topN by count. Ties break by ascending natural order of
// the tuple, so the result is deterministic.
func (a *Analyzer) FrequentCombos(draws []*model.Draw, k, topN int) ([]ComboCount, error) {
	if len(draws) == 0 {
		return nil, ErrInsufficientData
	}

	counts := make(map[string]*ComboCount)
	for _, d := range draws {
		nums := d.SortedNumbers()
		forEachSubset(nums, k, func(combo []int) {
			key := comboKey(combo)
			if c, ok := counts[key]; ok {
				c.Count++
				return
			}
			counts[key] = &ComboCount{Values: append([]int(nil), combo...), Count: 1}
		})
	}

	out := make([]ComboCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lessTuple(out[i].Values, out[j].Values)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// ConsecutiveReport aggregates how often draws contain adjacent number
// pairs differing by exactly one.
type ConsecutiveReport struct {
	TotalWithConsecutive int           `json:"total_with_consecutive"`
	Percentage           float64       `json:"percentage"`
	Distribution         map[int]int   `json:"distribution"` // consecutive-pair count -> draws
	Examples             []*model.Draw `json:"examples"`     // up to 5 draws with at least one pair
}

// ConsecutiveRuns counts, per draw, adjacent sorted numbers differing by 1
// and aggregates the distribution across all draws.
func (a *Analyzer) ConsecutiveRuns(draws []*model.Draw) (*ConsecutiveReport, error) {
	if len(draws) == 0 {
		return nil, ErrInsufficientData
	}

	report := &ConsecutiveReport{Distribution: make(map[int]int)}
	for _, d := range draws {
		nums := d.SortedNumbers()
		pairs := 0
		for i := 1; i < len(nums); i++ {
			if nums[i]-nums[i-1] == 1 {
				pairs++
			}
		}
		report.Distribution[pairs]++
		if pairs > 0 {
			report.TotalWithConsecutive++
			if len(report.Examples) < 5 {
				report.Examples = append(report.Examples, d)
			}
		}
	}
	report.Percentage = round2(float64(report.TotalWithConsecutive) / float64(len(draws)) * 100)
	return report, nil
}

// DecadeReport describes how main numbers spread over fixed-width buckets
// (1-10, 11-20, ...).
type DecadeReport struct {
	BucketCounts []int  `json:"bucket_counts"` // occurrences per bucket
	CommonShape  []int  `json:"common_shape"`  // most frequent per-draw bucket shape
	ShapeCount   int    `json:"shape_count"`   // draws exhibiting that shape
	BucketSize   int    `json:"bucket_size"`
}

// DecadeDistribution buckets every drawn number into width-10 ranges and
// finds the most common per-draw shape (how many numbers land in each
// bucket). Shape ties break by first-seen order being irrelevant: the
// lexicographically smallest shape wins.
func (a *Analyzer) DecadeDistribution(draws []*model.Draw) (*DecadeReport, error) {
	if len(draws) == 0 {
		return nil, ErrInsufficientData
	}

	const bucketSize = 10
	buckets := (a.spec.mainMax + bucketSize - 1) / bucketSize

	report := &DecadeReport{
		BucketCounts: make([]int, buckets),
		BucketSize:   bucketSize,
	}
	shapes := make(map[string]int)
	shapeValues := make(map[string][]int)

	for _, d := range draws {
		shape := make([]int, buckets)
		for _, n := range d.Numbers {
			idx := (n - 1) / bucketSize
			report.BucketCounts[idx]++
			shape[idx]++
		}
		key := comboKey(shape)
		shapes[key]++
		shapeValues[key] = shape
	}

	bestCount := -1
	bestKey := ""
	for key, count := range shapes {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestCount, bestKey = count, key
		}
	}
	report.CommonShape = shapeValues[bestKey]
	report.ShapeCount = bestCount
	return report, nil
}

// TerminalDigitReport counts last-digit occurrences across all numbers.
type TerminalDigitReport struct {
	DigitCounts     [10]int `json:"digit_counts"`
	DrawsWithRepeat int     `json:"draws_with_repeat"` // draws where two numbers share a last digit
}

// TerminalDigits counts occurrences of each last digit (0-9) and how often
// a draw carries at least two numbers sharing one.
func (a *Analyzer) TerminalDigits(draws []*model.Draw) (*TerminalDigitReport, error) {
	if len(draws) == 0 {
		return nil, ErrInsufficientData
	}

	report := &TerminalDigitReport{}
	for _, d := range draws {
		var perDraw [10]int
		for _, n := range d.Numbers {
			digit := n % 10
			report.DigitCounts[digit]++
			perDraw[digit]++
		}
		for _, c := range perDraw {
			if c >= 2 {
				report.DrawsWithRepeat++
				break
			}
		}
	}
	return report, nil
}

// SumTrendReport describes how main-number sums have been moving over the
// most recent window of draws.
type SumTrendReport struct {
	Window         int            `json:"window"`
	Mean           float64        `json:"mean"`
	FirstHalfMean  float64        `json:"first_half_mean"`
	SecondHalfMean float64        `json:"second_half_mean"`
	Trend          string         `json:"trend"`
	Bands          map[string]int `json:"bands"`
}

// SumTrend computes the mean sum over the last window draws, splits the
// window chronologically in half, and classifies the movement: rising if
// the second half exceeds the first by more than 5%, falling if below by
// more than 5%, stable otherwise. Needs at least two draws.
func (a *Analyzer) SumTrend(draws []*model.Draw, window int) (*SumTrendReport, error) {
	if len(draws) < 2 {
		return nil, ErrInsufficientData
	}
	if window > len(draws) || window < 2 {
		window = len(draws)
	}

	recent := draws[len(draws)-window:]
	sums := make([]float64, len(recent))
	total := 0.0
	bands := map[string]int{
		BandVeryLow: 0, BandLow: 0, BandMedium: 0, BandHigh: 0, BandVeryHigh: 0,
	}
	for i, d := range recent {
		s := float64(d.Sum())
		sums[i] = s
		total += s
		bands[a.band(s)]++
	}

	half := len(sums) / 2
	first := mean(sums[:half])
	second := mean(sums[half:])

	trend := TrendStable
	switch {
	case first > 0 && second > first*1.05:
		trend = TrendRising
	case first > 0 && second < first*0.95:
		trend = TrendFalling
	}

	return &SumTrendReport{
		Window:         window,
		Mean:           round2(total / float64(len(sums))),
		FirstHalfMean:  round2(first),
		SecondHalfMean: round2(second),
		Trend:          trend,
		Bands:          bands,
	}, nil
}

// band assigns a sum to a named band. Boundaries scale with the game's
// theoretical mean sum, so EuroMillions (mean ~127.5) lands on the
// 95/120/160/185 boundaries the historical distribution suggests.
func (a *Analyzer) band(sum float64) string {
	mid := float64(a.spec.mainCount) * float64(a.spec.mainMax+1) / 2
	switch {
	case sum < mid*0.745:
		return BandVeryLow
	case sum < mid*0.94:
		return BandLow
	case sum <= mid*1.255:
		return BandMedium
	case sum <= mid*1.455:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// forEachSubset calls fn with every k-subset of sorted, in ascending tuple
// order. The slice passed to fn is reused between calls.
func forEachSubset(sorted []int, k int, fn func([]int)) {
	n := len(sorted)
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	combo := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		for i, j := range idx {
			combo[i] = sorted[j]
		}
		fn(combo)

		// Advance to the next combination of indexes.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func comboKey(values []int) string {
	key := make([]byte, 0, len(values)*3)
	for _, v := range values {
		key = append(key, byte(v>>8), byte(v), ';')
	}
	return string(key)
}

func lessTuple(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
