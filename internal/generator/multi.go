package generator

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"lottery-analyzer/internal/model"
)

// NewMultiBet validates an explicit multi-bet selection and fills in the
// combination count and total cost.
func (g *Generator) NewMultiBet(strategy string, numbers, supplementary []int) (*model.MultiBet, error) {
	if err := g.spec.ValidateMultiSelection(numbers, supplementary); err != nil {
		return nil, err
	}

	nums := append([]int(nil), numbers...)
	supp := append([]int(nil), supplementary...)
	sort.Ints(nums)
	sort.Ints(supp)

	return &model.MultiBet{
		ID:            uuid.NewString(),
		Game:          g.spec.Code,
		Strategy:      strategy,
		Numbers:       nums,
		Supplementary: supp,
		Combinations:  g.spec.Combinations(len(nums), len(supp)),
		Cost:          g.spec.MultiCost(len(nums), len(supp)),
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// GenerateMulti builds a multi-bet by extending the strategy's pools to the
// requested selection sizes. Sizes are validated against the game's
// multi-bet bounds.
func (g *Generator) GenerateMulti(strategy string, mainSize, suppSize int) (*model.MultiBet, error) {
	var numbers, supp []int
	switch strategy {
	case StrategyRandom, StrategyBalanced:
		numbers = g.sampleRange(g.spec.MainMax, mainSize)
		if suppSize > 0 {
			supp = g.sampleRange(g.spec.SuppMax, suppSize)
		}
	case StrategyFrequency:
		if len(g.mainStats) == 0 {
			return nil, ErrMissingStats
		}
		numbers = g.samplePool(g.topBy(g.mainStats, mainSize+5, moreFrequent), mainSize)
		if suppSize > 0 {
			supp = g.multiSuppPick(suppSize, moreFrequent)
		}
	case StrategyCold:
		if len(g.mainStats) == 0 {
			return nil, ErrMissingStats
		}
		numbers = g.samplePool(g.topBy(g.mainStats, mainSize+5, lessFrequent), mainSize)
		if suppSize > 0 {
			supp = g.multiSuppPick(suppSize, lessFrequent)
		}
	case StrategyMixed:
		if len(g.mainStats) == 0 {
			return nil, ErrMissingStats
		}
		numbers = g.mixedMultiPick(mainSize)
		if suppSize > 0 {
			supp = g.sampleRange(g.spec.SuppMax, suppSize)
		}
	default:
		return nil, ErrUnknownStrategy
	}

	return g.NewMultiBet(strategy, numbers, supp)
}

func (g *Generator) multiSuppPick(size int, better func(a, b model.ValueStatistic) bool) []int {
	if len(g.suppStats) == 0 {
		return g.sampleRange(g.spec.SuppMax, size)
	}
	return g.samplePool(g.topBy(g.suppStats, size+2, better), size)
}

// mixedMultiPick splits the selection between hot, cold and overdue pools in
// roughly equal parts, topping up with random values.
func (g *Generator) mixedMultiPick(size int) []int {
	third := size / 3
	picked := make(map[int]bool, size)

	for _, pool := range [][]int{
		g.topBy(g.mainStats, mainPoolSize, moreFrequent),
		g.topBy(g.mainStats, mainPoolSize, lessFrequent),
		g.topBy(g.mainStats, mainPoolSize, moreOverdue),
	} {
		n := third
		for _, v := range g.samplePool(pool, len(pool)) {
			if n == 0 || len(picked) == size {
				break
			}
			if !picked[v] {
				picked[v] = true
				n--
			}
		}
	}
	for len(picked) < size {
		picked[g.rng.Intn(g.spec.MainMax)+1] = true
	}

	out := make([]int, 0, size)
	for v := range picked {
		out = append(out, v)
	}
	return out
}
