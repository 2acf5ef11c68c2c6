// Package generator produces bet selections from the stored statistics.
// Every strategy draws through an injected random source, so batch output is
// reproducible under a seeded generator in tests.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// Errors for bet generation.
var (
	ErrUnknownStrategy = errors.New("unknown bet strategy")
	ErrMissingStats    = errors.New("strategy requires statistics; recompute them first")
)

// Bet strategies.
const (
	StrategyRandom    = "random"
	StrategyFrequency = "frequency"
	StrategyCold      = "cold"
	StrategyBalanced  = "balanced"
	StrategyMixed     = "mixed"
)

// Pool sizes for statistics-driven strategies.
const (
	mainPoolSize = 15
	suppPoolSize = 5
)

// balancedRetries bounds the rejection loop of the balanced strategy. When
// no candidate satisfies the constraints within the budget, the last one is
// returned as-is.
const balancedRetries = 100

// Generator builds bets for one game. Statistics may be nil, in which case
// only the random strategy is available.
type Generator struct {
	spec game.Spec
	rng  *rand.Rand

	mainStats []model.ValueStatistic // ordered by value ascending
	suppStats []model.ValueStatistic
}

// New creates a generator from the game spec and its current statistics.
func New(spec game.Spec, stats []model.ValueStatistic, rng *rand.Rand) *Generator {
	g := &Generator{spec: spec, rng: rng}
	for _, s := range stats {
		switch s.Kind {
		case model.StatMain:
			g.mainStats = append(g.mainStats, s)
		case model.StatSupp:
			g.suppStats = append(g.suppStats, s)
		}
	}
	sort.Slice(g.mainStats, func(i, j int) bool { return g.mainStats[i].Value < g.mainStats[j].Value })
	sort.Slice(g.suppStats, func(i, j int) bool { return g.suppStats[i].Value < g.suppStats[j].Value })
	return g
}

// Generate produces one bet under the named strategy.
func (g *Generator) Generate(strategy string) (*model.GeneratedBet, error) {
	var (
		numbers, supp []int
		err           error
	)
	switch strategy {
	case StrategyRandom:
		numbers, supp = g.randomSelection()
	case StrategyFrequency:
		numbers, supp, err = g.frequencySelection()
	case StrategyCold:
		numbers, supp, err = g.coldSelection()
	case StrategyBalanced:
		numbers, supp = g.balancedSelection()
	case StrategyMixed:
		numbers, supp, err = g.mixedSelection()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if err != nil {
		return nil, err
	}

	sort.Ints(numbers)
	sort.Ints(supp)
	return &model.GeneratedBet{
		ID:            uuid.NewString(),
		Game:          g.spec.Code,
		Strategy:      strategy,
		Numbers:       numbers,
		Supplementary: supp,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// GenerateBatch produces up to count distinct bets. Duplicate selections are
// retried within a budget of count*10 attempts; when the budget runs out the
// distinct bets achieved so far are returned, short of count.
func (g *Generator) GenerateBatch(strategy string, count int) ([]*model.GeneratedBet, error) {
	bets := make([]*model.GeneratedBet, 0, count)
	seen := make(map[string]bool, count)

	for attempts := 0; len(bets) < count && attempts < count*10; attempts++ {
		bet, err := g.Generate(strategy)
		if err != nil {
			return nil, err
		}
		key := bet.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		bets = append(bets, bet)
	}
	return bets, nil
}

// randomSelection samples uniformly from the full ranges.
func (g *Generator) randomSelection() (numbers, supp []int) {
	numbers = g.sampleRange(g.spec.MainMax, g.spec.MainCount)
	if g.spec.SuppCount > 0 {
		supp = g.sampleRange(g.spec.SuppMax, g.spec.SuppCount)
	}
	return numbers, supp
}

// frequencySelection samples from the most frequently drawn values.
func (g *Generator) frequencySelection() (numbers, supp []int, err error) {
	if len(g.mainStats) == 0 {
		return nil, nil, ErrMissingStats
	}
	numbers = g.samplePool(g.topBy(g.mainStats, mainPoolSize, moreFrequent), g.spec.MainCount)
	if g.spec.SuppCount > 0 && len(g.suppStats) > 0 {
		supp = g.samplePool(g.topBy(g.suppStats, suppPoolSize, moreFrequent), g.spec.SuppCount)
	}
	return numbers, supp, nil
}

// coldSelection samples from the least frequently drawn values.
func (g *Generator) coldSelection() (numbers, supp []int, err error) {
	if len(g.mainStats) == 0 {
		return nil, nil, ErrMissingStats
	}
	numbers = g.samplePool(g.topBy(g.mainStats, mainPoolSize, lessFrequent), g.spec.MainCount)
	if g.spec.SuppCount > 0 && len(g.suppStats) > 0 {
		supp = g.samplePool(g.topBy(g.suppStats, suppPoolSize, lessFrequent), g.spec.SuppCount)
	}
	return numbers, supp, nil
}

// balancedSelection generates random candidates until one satisfies the sum
// and parity constraints, bounded by balancedRetries.
func (g *Generator) balancedSelection() (numbers, supp []int) {
	mid := float64(g.spec.MainCount) * float64(g.spec.MainMax+1) / 2
	sumMin := mid * 0.78
	sumMax := mid * 1.37
	evenMin := (g.spec.MainCount - 1) / 2
	evenMax := g.spec.MainCount/2 + 1

	for i := 0; i < balancedRetries; i++ {
		numbers = g.sampleRange(g.spec.MainMax, g.spec.MainCount)
		sum := 0
		even := 0
		for _, n := range numbers {
			sum += n
			if n%2 == 0 {
				even++
			}
		}
		if float64(sum) >= sumMin && float64(sum) <= sumMax && even >= evenMin && even <= evenMax {
			break
		}
	}
	if g.spec.SuppCount > 0 {
		supp = g.sampleRange(g.spec.SuppMax, g.spec.SuppCount)
	}
	return numbers, supp
}

// mixedSelection takes two hot values, two cold values, and fills the rest
// with the most overdue ones. Overlaps and short pools fall back to uniform
// random picks.
func (g *Generator) mixedSelection() (numbers, supp []int, err error) {
	if len(g.mainStats) == 0 {
		return nil, nil, ErrMissingStats
	}

	hot := g.topBy(g.mainStats, mainPoolSize, moreFrequent)
	cold := g.topBy(g.mainStats, mainPoolSize, lessFrequent)
	overdue := g.topBy(g.mainStats, mainPoolSize, moreOverdue)

	picked := make(map[int]bool, g.spec.MainCount)
	take := func(pool []int, n int) {
		for _, v := range g.samplePool(pool, len(pool)) {
			if n == 0 || len(picked) == g.spec.MainCount {
				return
			}
			if !picked[v] {
				picked[v] = true
				n--
			}
		}
	}
	take(hot, 2)
	take(cold, 2)
	take(overdue, g.spec.MainCount-len(picked))

	// Random fallback when the pools overlapped too much.
	for len(picked) < g.spec.MainCount {
		picked[g.rng.Intn(g.spec.MainMax)+1] = true
	}

	numbers = make([]int, 0, g.spec.MainCount)
	for v := range picked {
		numbers = append(numbers, v)
	}
	if g.spec.SuppCount > 0 {
		supp = g.sampleRange(g.spec.SuppMax, g.spec.SuppCount)
	}
	return numbers, supp, nil
}

// sampleRange picks n distinct values uniformly from [1, max].
func (g *Generator) sampleRange(max, n int) []int {
	perm := g.rng.Perm(max)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = perm[i] + 1
	}
	return out
}

// samplePool picks up to n distinct values uniformly from the pool.
func (g *Generator) samplePool(pool []int, n int) []int {
	if n > len(pool) {
		n = len(pool)
	}
	perm := g.rng.Perm(len(pool))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = pool[perm[i]]
	}
	return out
}

// topBy returns the values of the n statistics ranking highest under less,
// ties by ascending value.
func (g *Generator) topBy(stats []model.ValueStatistic, n int, better func(a, b model.ValueStatistic) bool) []int {
	sorted := append([]model.ValueStatistic(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool {
		if better(sorted[i], sorted[j]) != better(sorted[j], sorted[i]) {
			return better(sorted[i], sorted[j])
		}
		return sorted[i].Value < sorted[j].Value
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = sorted[i].Value
	}
	return out
}

func moreFrequent(a, b model.ValueStatistic) bool { return a.Frequency > b.Frequency }
func lessFrequent(a, b model.ValueStatistic) bool { return a.Frequency < b.Frequency }
func moreOverdue(a, b model.ValueStatistic) bool  { return a.DaysSinceLast > b.DaysSinceLast }
