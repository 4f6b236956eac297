package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrizeAggregator_Total(t *testing.T) {
	agg := NewPrizeAggregator()
	tests := []struct {
		name   string
		ladder models.PrizeLadder
		want   string
	}{
		{"non-numeric counts as zero", models.PrizeLadder{{Place: "1st", Amount: "500"}, {Place: "2nd", Amount: "abc"}}, "500"},
		{"decimals add exactly", models.PrizeLadder{{Place: "1st", Amount: "0.1"}, {Place: "2nd", Amount: "0.2"}}, "0.3"},
		{"missing amount", models.PrizeLadder{{Place: "1st"}, {Place: "2nd", Amount: "7"}}, "7"},
		{"NaN is not a number", models.PrizeLadder{{Place: "1st", Amount: "NaN"}}, "0"},
		{"empty ladder", nil, "0"},
		{"huge exponent is not a number", models.PrizeLadder{{Place: "1st", Amount: "1e900000000"}, {Place: "2nd", Amount: "5"}}, "5"},
		{"largest accepted exponent", models.PrizeLadder{{Place: "1st", Amount: "1e38"}}, "1e38"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(agg.Total(tt.ladder)), "got %s", agg.Total(tt.ladder))
		})
	}
}

func TestPrizeAggregator_Warning(t *testing.T) {
	agg := NewPrizeAggregator()
	assert.True(t, agg.Warning(models.PrizeLadder{{Place: "1st", Amount: "0"}}))
	assert.True(t, agg.Warning(models.PrizeLadder{{Place: "1st", Amount: "abc"}}))
	assert.False(t, agg.Warning(models.PrizeLadder{{Place: "1st", Amount: "1"}}))
	assert.False(t, agg.Warning(nil))
}

func TestValidateLadder(t *testing.T) {
	tests := []struct {
		name    string
		ladder  models.PrizeLadder
		wantErr bool
	}{
		{"valid", models.PrizeLadder{{Place: "1st", Amount: "500"}, {Place: "2nd", Amount: "0"}}, false},
		{"empty", nil, true},
		{"blank place", models.PrizeLadder{{Place: " ", Amount: "1"}}, true},
		{"duplicate place", models.PrizeLadder{{Place: "1st", Amount: "1"}, {Place: "1st", Amount: "2"}}, true},
		{"negative amount", models.PrizeLadder{{Place: "1st", Amount: "-1"}}, true},
		{"non-numeric amount", models.PrizeLadder{{Place: "1st", Amount: "lots"}}, true},
		{"sentinel place", models.PrizeLadder{{Place: "no prize", Amount: "1"}}, true},
		{"exponent too large", models.PrizeLadder{{Place: "1st", Amount: "1e2000000"}}, true},
		{"exponent too small", models.PrizeLadder{{Place: "1st", Amount: "1e-39"}}, true},
		{"too many digits", models.PrizeLadder{{Place: "1st", Amount: models.PrizeAmount(strings.Repeat("9", 39))}}, true},
		{"too long", models.PrizeLadder{{Place: "1st", Amount: models.PrizeAmount("0." + strings.Repeat("0", 70) + "1")}}, true},
		{"many digits within bounds", models.PrizeLadder{{Place: "1st", Amount: models.PrizeAmount(strings.Repeat("9", 38))}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLadder(tt.ladder)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseAmount_BoundsKeepRenderingCheap(t *testing.T) {
	_, ok := ParseAmount("1e900000000")
	assert.False(t, ok)

	total := NewPrizeAggregator().Total(models.PrizeLadder{
		{Place: "1st", Amount: "1e38"},
		{Place: "2nd", Amount: "1e-38"},
	})
	assert.Less(t, len(total.String()), 100)
}
