package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NoPrize is the place value a caller sends to leave a submission unassigned.
const NoPrize = "No Prize"

// PrizeAmount keeps the amount exactly as it was supplied. Ladders written by
// older clients carry numbers, numeric strings and occasionally junk; parsing
// is left to the aggregator.
type PrizeAmount string

// UnmarshalJSON accepts a JSON number, a string or null.
func (a *PrizeAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = PrizeAmount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = PrizeAmount(n.String())
	return nil
}

// MarshalJSON writes numeric amounts as JSON numbers and anything else as a string.
func (a PrizeAmount) MarshalJSON() ([]byte, error) {
	s := string(a)
	if s == "" {
		return []byte("0"), nil
	}
	var n json.Number
	if err := json.Unmarshal([]byte(s), &n); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Prize is a single rung of a bounty's prize ladder
type Prize struct {
	Place  string      `bson:"place" json:"place"`   // e.g., "1st", "2nd"
	Amount PrizeAmount `bson:"amount" json:"amount"` // token amount for this place
}

// UnmarshalJSON also accepts the legacy "prize" key for the amount.
func (p *Prize) UnmarshalJSON(data []byte) error {
	var raw struct {
		Place  string       `json:"place"`
		Amount *PrizeAmount `json:"amount"`
		Prize  *PrizeAmount `json:"prize"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Place = strings.TrimSpace(raw.Place)
	p.Amount = ""
	switch {
	case raw.Amount != nil:
		p.Amount = *raw.Amount
	case raw.Prize != nil:
		p.Amount = *raw.Prize
	}
	return nil
}

// PrizeLadder is the ordered list of prizes for a bounty
type PrizeLadder []Prize

// Places returns the set of place labels on the ladder.
func (l PrizeLadder) Places() map[string]bool {
	places := make(map[string]bool, len(l))
	for _, p := range l {
		places[p.Place] = true
	}
	return places
}

// IsNoPrize reports whether place is the "No Prize" sentinel.
func IsNoPrize(place string) bool {
	return strings.EqualFold(strings.TrimSpace(place), NoPrize)
}
