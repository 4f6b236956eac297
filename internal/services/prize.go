package services

import (
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/shopspring/decimal"
)

// PrizeAggregator sums prize ladders. It is token agnostic and never fails.
type PrizeAggregator struct{}

// NewPrizeAggregator creates a PrizeAggregator
func NewPrizeAggregator() *PrizeAggregator {
	return &PrizeAggregator{}
}

// Total adds up every amount on the ladder. Missing or non-numeric amounts count as zero.
func (PrizeAggregator) Total(prizes models.PrizeLadder) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prizes {
		if amount, ok := ParseAmount(p.Amount); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// Warning reports a non-empty ladder whose total is zero.
func (a PrizeAggregator) Warning(prizes models.PrizeLadder) bool {
	return len(prizes) > 0 && a.Total(prizes).IsZero()
}

// Bounds on a single prize amount. Anything outside them is treated as
// non-numeric so that summing and printing a ladder stays cheap.
const (
	maxAmountLength   = 64
	maxAmountDigits   = 38
	maxAmountExponent = 38
)

// ParseAmount parses a prize amount as a decimal number.
func ParseAmount(amount models.PrizeAmount) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(amount))
	if s == "" || len(s) > maxAmountLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, false
	}
	if d.NumDigits() > maxAmountDigits {
		return decimal.Zero, false
	}
	return d, true
}

// ValidateLadder checks a ladder supplied by an operator: it must be
// non-empty, carry unique non-blank labels and non-negative numeric amounts.
func ValidateLadder(prizes models.PrizeLadder) error {
	if len(prizes) == 0 {
		return validationError("prizes are required")
	}
	seen := make(map[string]bool, len(prizes))
	for _, p := range prizes {
		place := strings.TrimSpace(p.Place)
		if place == "" {
			return validationError("prize place is required")
		}
		if models.IsNoPrize(place) {
			return validationError("%q is reserved and cannot be used as a prize place", models.NoPrize)
		}
		if seen[place] {
			return validationError("duplicate prize place %q", place)
		}
		seen[place] = true

		amount, ok := ParseAmount(p.Amount)
		if !ok || amount.IsNegative() {
			return validationError("prize amount for %q must be a non-negative number", place)
		}
	}
	return nil
}
