// Package model defines the data models for the lottery analyzer.
package model

import (
	"sort"
	"time"

	"lottery-analyzer/internal/game"
)

// Draw represents one official lottery result. Identity is (game, date);
// the date is unique per game and a draw is never mutated after import.
type Draw struct {
	ID            int64     `db:"id"`
	Game          game.Code `db:"game"`
	Date          time.Time `db:"draw_date"`
	Numbers       []int     `db:"numbers"`
	Supplementary []int     `db:"supplementary"`
	Jackpot       *float64  `db:"jackpot"`
	HadWinner     bool      `db:"had_winner"`
	CreatedAt     time.Time `db:"created_at"`
}

// SortedNumbers returns the main numbers in ascending order regardless of
// insertion order.
func (d *Draw) SortedNumbers() []int {
	out := append([]int(nil), d.Numbers...)
	sort.Ints(out)
	return out
}

// SortedSupplementary returns the supplementary values in ascending order.
func (d *Draw) SortedSupplementary() []int {
	out := append([]int(nil), d.Supplementary...)
	sort.Ints(out)
	return out
}

// Normalize sorts the value slices in place. Called before persisting so the
// stored representation is always ascending.
func (d *Draw) Normalize() {
	sort.Ints(d.Numbers)
	sort.Ints(d.Supplementary)
}

// Sum returns the sum of the main numbers.
func (d *Draw) Sum() int {
	total := 0
	for _, n := range d.Numbers {
		total += n
	}
	return total
}

// EvenCount returns how many main numbers are even.
func (d *Draw) EvenCount() int {
	even := 0
	for _, n := range d.Numbers {
		if n%2 == 0 {
			even++
		}
	}
	return even
}

// StatKind distinguishes statistics over main numbers from statistics over
// supplementary values.
type StatKind string

// Statistic kinds.
const (
	StatMain StatKind = "main"
	StatSupp StatKind = "supp"
)

// Status classification for a value's deviation from expectation.
const (
	StatusHot    = "hot"
	StatusCold   = "cold"
	StatusNormal = "normal"
)

// DaysNeverSeen is the days-since-last sentinel for values that have never
// been drawn.
const DaysNeverSeen = 9999

// ValueStatistic holds the derived statistics of one possible value. It is
// fully recomputable from the draw set and rebuilt wholesale on recompute.
type ValueStatistic struct {
	Game          game.Code  `db:"game"`
	Kind          StatKind   `db:"kind"`
	Value         int        `db:"value"`
	Frequency     int        `db:"frequency"`
	Percentage    float64    `db:"percentage"`
	LastSeen      *time.Time `db:"last_seen"`
	DaysSinceLast int        `db:"days_since_last"`
	GapMean       float64    `db:"gap_mean"`
	GapMax        int        `db:"gap_max"`
	Deviation     float64    `db:"deviation"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Status classifies the value as hot, cold or normal. The boundaries are
// exclusive: a deviation of exactly +/-0.1 is still normal.
func (s *ValueStatistic) Status() string {
	switch {
	case s.Deviation > 0.1:
		return StatusHot
	case s.Deviation < -0.1:
		return StatusCold
	default:
		return StatusNormal
	}
}

// GeneratedBet is a synthetic selection produced by the bet generator,
// tagged with the strategy that produced it. Match counts are filled in
// when the bet is later verified against a draw.
type GeneratedBet struct {
	ID            string    `db:"id"` // uuid
	Game          game.Code `db:"game"`
	Strategy      string    `db:"strategy"`
	Numbers       []int     `db:"numbers"`
	Supplementary []int     `db:"supplementary"`
	MainMatches   *int      `db:"main_matches"`
	SuppMatches   *int      `db:"supp_matches"`
	VerifiedDraw  *int64    `db:"verified_draw_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// Key returns a comparable identity for duplicate detection in batch
// generation: the sorted numbers and supplementary values.
func (b *GeneratedBet) Key() string {
	nums := append([]int(nil), b.Numbers...)
	supp := append([]int(nil), b.Supplementary...)
	sort.Ints(nums)
	sort.Ints(supp)
	key := make([]byte, 0, 3*(len(nums)+len(supp))+1)
	for _, n := range nums {
		key = append(key, byte(n), ',')
	}
	key = append(key, '|')
	for _, s := range supp {
		key = append(key, byte(s), ',')
	}
	return string(key)
}

// MultiBet is a bet selecting more values than a simple bet; it plays every
// combination and stores the precomputed combination count and price.
type MultiBet struct {
	ID            string    `db:"id"` // uuid
	Game          game.Code `db:"game"`
	Strategy      string    `db:"strategy"`
	Numbers       []int     `db:"numbers"`
	Supplementary []int     `db:"supplementary"`
	Combinations  int       `db:"combinations"`
	Cost          float64   `db:"cost"`
	CreatedAt     time.Time `db:"created_at"`
}

// CandidateDraw is a raw record produced by an import source (scraper or
// CSV) before validation and deduplication.
type CandidateDraw struct {
	Date          time.Time
	Numbers       []int
	Supplementary []int
	Jackpot       *float64
	HadWinner     bool
}

// ImportSummary reports the outcome of one import run.
type ImportSummary struct {
	Found      int `json:"found"`
	New        int `json:"new"`
	Duplicates int `json:"duplicates"`
	Imported   int `json:"imported"`
	Errors     int `json:"errors"`
}

// DrawFilter narrows draw queries. Zero values mean "no constraint".
type DrawFilter struct {
	From       *time.Time
	To         *time.Time
	Year       int
	Month      int
	Number     int  // draws containing this main number
	Supp       int  // draws containing this supplementary value
	WinnerOnly bool
	Limit      int
	Offset     int
}
