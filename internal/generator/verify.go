package generator

import (
	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// VerificationResult reports how a bet fared against an official draw.
type VerificationResult struct {
	MainMatches int             `json:"main_matches"`
	SuppMatches int             `json:"supp_matches"`
	Won         bool            `json:"won"`
	Tier        *game.PrizeTier `json:"tier,omitempty"`
}

// Verify counts the overlap between a selection and a draw and maps the
// match counts to a prize tier when one applies.
func Verify(spec game.Spec, numbers, supplementary []int, draw *model.Draw) VerificationResult {
	result := VerificationResult{
		MainMatches: overlap(numbers, draw.Numbers),
		SuppMatches: overlap(supplementary, draw.Supplementary),
	}
	if tier, ok := spec.PrizeFor(result.MainMatches, result.SuppMatches); ok {
		result.Won = true
		result.Tier = &tier
	}
	return result
}

// VerifyBet verifies a stored bet and fills its match fields in place.
func VerifyBet(spec game.Spec, bet *model.GeneratedBet, draw *model.Draw) VerificationResult {
	result := Verify(spec, bet.Numbers, bet.Supplementary, draw)
	bet.MainMatches = &result.MainMatches
	bet.SuppMatches = &result.SuppMatches
	bet.VerifiedDraw = &draw.ID
	return result
}

func overlap(a, b []int) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x == y {
				n++
				break
			}
		}
	}
	return n
}
