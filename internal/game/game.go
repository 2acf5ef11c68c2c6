// Package game defines the rule specifications for the supported lottery
// games. Every other component (statistics, prediction, bet generation,
// import validation) consults these specs instead of hard-coding ranges.
package game

import (
	"errors"
	"fmt"
	"sort"
)

// Code identifies a supported lottery game.
type Code string

// Supported games.
const (
	EuroMillions Code = "euromillions"
	EuroDreams   Code = "eurodreams"
	Totoloto     Code = "totoloto"
)

// Errors for game rule validation.
var (
	ErrUnknownGame      = errors.New("unknown game")
	ErrWrongNumberCount = errors.New("wrong count of main numbers")
	ErrWrongSuppCount   = errors.New("wrong count of supplementary values")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrDuplicateValue   = errors.New("duplicate value in selection")
	ErrMultiBetBounds   = errors.New("multi-bet selection outside allowed bounds")
)

// PrizeTier maps an exact (main matches, supplementary matches) pair to a
// prize tier. Tier 1 is the jackpot.
type PrizeTier struct {
	MainMatches int
	SuppMatches int
	Tier        int
	Label       string
}

// Spec describes the fixed rules of one game: how many numbers are drawn,
// from which ranges, what a bet costs, and how matches map to prizes.
type Spec struct {
	Code      Code
	Name      string
	MainCount int // numbers drawn per draw
	MainMax   int // main numbers range [1, MainMax]
	SuppCount int // supplementary values per draw (stars, dream, lucky number)
	SuppMax   int // supplementary range [1, SuppMax]; 0 when the game has none
	SuppName  string

	// SuppOptional marks games where draws may be recorded without the
	// supplementary value (older Totoloto records lack the lucky number).
	SuppOptional bool

	UnitPrice float64 // cost of one simple combination, EUR

	// Multi-bet bounds (inclusive). A multi-bet selects more values than a
	// simple bet and plays every combination.
	MultiMainMin int
	MultiMainMax int
	MultiSuppMin int
	MultiSuppMax int

	PrizeTiers []PrizeTier

	// TierPayouts holds the estimated average payout per tier, used by the
	// strategy simulator for ROI figures. These are rough historical
	// averages, not guaranteed amounts.
	TierPayouts map[int]float64
}

var euroMillionsTiers = []PrizeTier{
	{5, 2, 1, "1st Prize (Jackpot)"},
	{5, 1, 2, "2nd Prize"},
	{5, 0, 3, "3rd Prize"},
	{4, 2, 4, "4th Prize"},
	{4, 1, 5, "5th Prize"},
	{3, 2, 6, "6th Prize"},
	{4, 0, 7, "7th Prize"},
	{2, 2, 8, "8th Prize"},
	{3, 1, 9, "9th Prize"},
	{3, 0, 10, "10th Prize"},
	{1, 2, 11, "11th Prize"},
	{2, 1, 12, "12th Prize"},
	{2, 0, 13, "13th Prize"},
}

var euroDreamsTiers = []PrizeTier{
	{6, 1, 1, "1st Prize (Annuity)"},
	{6, 0, 2, "2nd Prize"},
	{5, 1, 3, "3rd Prize"},
	{5, 0, 3, "3rd Prize"},
	{4, 1, 4, "4th Prize"},
	{4, 0, 4, "4th Prize"},
	{3, 1, 5, "5th Prize"},
	{3, 0, 5, "5th Prize"},
	{2, 1, 6, "6th Prize"},
	{2, 0, 6, "6th Prize"},
}

var totolotoTiers = []PrizeTier{
	{5, 1, 1, "1st Prize (Jackpot)"},
	{5, 0, 2, "2nd Prize"},
	{4, 1, 3, "3rd Prize"},
	{4, 0, 4, "4th Prize"},
	{3, 1, 5, "5th Prize"},
	{3, 0, 6, "6th Prize"},
}

var specs = map[Code]Spec{
	EuroMillions: {
		Code:      EuroMillions,
		Name:      "EuroMillions",
		MainCount: 5, MainMax: 50,
		SuppCount: 2, SuppMax: 12,
		SuppName:  "star",
		UnitPrice: 2.50,
		MultiMainMin: 5, MultiMainMax: 10,
		MultiSuppMin: 2, MultiSuppMax: 5,
		PrizeTiers: euroMillionsTiers,
		TierPayouts: map[int]float64{
			1: 17000000, 2: 250000, 3: 30000, 4: 1500, 5: 120,
			6: 60, 7: 40, 8: 15, 9: 12, 10: 10, 11: 8, 12: 6, 13: 4,
		},
	},
	EuroDreams: {
		Code:      EuroDreams,
		Name:      "EuroDreams",
		MainCount: 6, MainMax: 40,
		SuppCount: 1, SuppMax: 5,
		SuppName:  "dream",
		UnitPrice: 2.50,
		MultiMainMin: 6, MultiMainMax: 12,
		MultiSuppMin: 1, MultiSuppMax: 1,
		PrizeTiers: euroDreamsTiers,
		TierPayouts: map[int]float64{
			1: 7200000, 2: 120000, 3: 100, 4: 30, 5: 10, 6: 2.5,
		},
	},
	Totoloto: {
		Code:      Totoloto,
		Name:      "Totoloto",
		MainCount: 5, MainMax: 49,
		SuppCount: 1, SuppMax: 13,
		SuppName:     "lucky",
		SuppOptional: true,
		UnitPrice:    0.80,
		MultiMainMin: 5, MultiMainMax: 11,
		MultiSuppMin: 0, MultiSuppMax: 1,
		PrizeTiers: totolotoTiers,
		TierPayouts: map[int]float64{
			1: 2500000, 2: 30000, 3: 500, 4: 60, 5: 8, 6: 3,
		},
	},
}

// ByCode returns the spec for a game code.
func ByCode(code Code) (Spec, error) {
	spec, ok := specs[code]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownGame, code)
	}
	return spec, nil
}

// All returns the specs of every supported game, ordered by code.
func All() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// MainProbability is the theoretical probability of a given main number
// appearing in one draw (MainCount slots over MainMax values).
func (s Spec) MainProbability() float64 {
	return float64(s.MainCount) / float64(s.MainMax)
}

// SuppProbability is the theoretical probability of a given supplementary
// value appearing in one draw. Zero for games without supplementary values.
func (s Spec) SuppProbability() float64 {
	if s.SuppMax == 0 {
		return 0
	}
	return float64(s.SuppCount) / float64(s.SuppMax)
}

// ExpectedMainGap is the expected number of draws between two appearances of
// the same main number.
func (s Spec) ExpectedMainGap() float64 {
	return float64(s.MainMax) / float64(s.MainCount)
}

// ExpectedSuppGap is the expected number of draws between two appearances of
// the same supplementary value.
func (s Spec) ExpectedSuppGap() float64 {
	if s.SuppCount == 0 {
		return 0
	}
	return float64(s.SuppMax) / float64(s.SuppCount)
}

// ValidateSelection checks a simple bet selection: exact counts, all values
// in range, no duplicates. Supplementary values may be empty when the game
// marks them optional.
func (s Spec) ValidateSelection(numbers, supplementary []int) error {
	if len(numbers) != s.MainCount {
		return fmt.Errorf("%w: want %d, got %d", ErrWrongNumberCount, s.MainCount, len(numbers))
	}
	if err := checkValues(numbers, s.MainMax); err != nil {
		return err
	}
	if len(supplementary) == 0 && s.SuppOptional {
		return nil
	}
	if len(supplementary) != s.SuppCount {
		return fmt.Errorf("%w: want %d, got %d", ErrWrongSuppCount, s.SuppCount, len(supplementary))
	}
	return checkValues(supplementary, s.SuppMax)
}

// ValidateMultiSelection checks a multi-bet selection against the game's
// multi-bet bounds.
func (s Spec) ValidateMultiSelection(numbers, supplementary []int) error {
	if len(numbers) < s.MultiMainMin || len(numbers) > s.MultiMainMax {
		return fmt.Errorf("%w: %d numbers, allowed %d-%d",
			ErrMultiBetBounds, len(numbers), s.MultiMainMin, s.MultiMainMax)
	}
	if len(supplementary) < s.MultiSuppMin || len(supplementary) > s.MultiSuppMax {
		return fmt.Errorf("%w: %d %ss, allowed %d-%d",
			ErrMultiBetBounds, len(supplementary), s.SuppName, s.MultiSuppMin, s.MultiSuppMax)
	}
	if err := checkValues(numbers, s.MainMax); err != nil {
		return err
	}
	if len(supplementary) > 0 {
		return checkValues(supplementary, s.SuppMax)
	}
	return nil
}

// Combinations returns the number of simple combinations a multi-bet covers:
// C(len(numbers), MainCount) x C(len(supplementary), SuppCount).
func (s Spec) Combinations(numbers, supplementary int) int {
	combos := Binomial(numbers, s.MainCount)
	if s.SuppCount > 0 && supplementary > 0 {
		combos *= Binomial(supplementary, s.SuppCount)
	}
	return combos
}

// MultiCost returns the total price of a multi-bet.
func (s Spec) MultiCost(numbers, supplementary int) float64 {
	return float64(s.Combinations(numbers, supplementary)) * s.UnitPrice
}

// PrizeFor maps exact match counts to a prize tier. The second return is
// false when the match counts win nothing.
func (s Spec) PrizeFor(mainMatches, suppMatches int) (PrizeTier, bool) {
	for _, t := range s.PrizeTiers {
		if t.MainMatches == mainMatches && t.SuppMatches == suppMatches {
			return t, true
		}
	}
	return PrizeTier{}, false
}

// Binomial computes the binomial coefficient C(n, k).
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

func checkValues(values []int, max int) error {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if v < 1 || v > max {
			return fmt.Errorf("%w: %d not in [1, %d]", ErrValueOutOfRange, v, max)
		}
		if seen[v] {
			return fmt.Errorf("%w: %d", ErrDuplicateValue, v)
		}
		seen[v] = true
	}
	return nil
}
