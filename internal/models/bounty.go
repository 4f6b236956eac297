package models

import (
	"time"
)

// BountyStatus is derived from the clock and the winners mapping; it is never stored.
type BountyStatus string

const (
	BountyStatusActive    BountyStatus = "active"
	BountyStatusEnded     BountyStatus = "ended"
	BountyStatusFinalized BountyStatus = "finalized"
)

// Winners maps a submission id to the place label it was awarded.
type Winners map[string]string

// Bounty represents a sponsored challenge with a deadline and a prize ladder
type Bounty struct {
	ID            string       `bson:"_id,omitempty" json:"id"`
	Title         string       `bson:"title" json:"title"`
	Description   string       `bson:"description" json:"description"`
	Requirements  Requirements `bson:"requirements" json:"requirements"`
	CategoryID    string       `bson:"categoryId" json:"category_id"`
	EndDate       time.Time    `bson:"endDate" json:"end_date"`
	Prizes        PrizeLadder  `bson:"prizes" json:"prizes"`
	TokenSymbol   string       `bson:"tokenSymbol" json:"token_symbol"`
	TokenAddress  string       `bson:"tokenAddress" json:"token_address"`
	IsCustomToken bool         `bson:"isCustomToken" json:"is_custom_token"`
	Winners       Winners      `bson:"winners,omitempty" json:"winners"` // absent until finalized
	FinalizedAt   *time.Time   `bson:"finalizedAt,omitempty" json:"finalized_at,omitempty"`
	FinalizedBy   string       `bson:"finalizedBy,omitempty" json:"finalized_by,omitempty"`
	CreatedAt     time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updated_at"`

	// Joined and calculated fields (not stored)
	Category    *Category     `bson:"-" json:"category,omitempty"`
	Submissions []*Submission `bson:"-" json:"submissions,omitempty"`
	Status      BountyStatus  `bson:"-" json:"status"`
	TotalPrize  string        `bson:"-" json:"total_prize"`
}

// IsFinalized reports whether winners have been recorded.
func (b *Bounty) IsFinalized() bool {
	return b.Winners != nil
}

// HasEnded reports whether now is at or past the end date.
func (b *Bounty) HasEnded(now time.Time) bool {
	return !now.Before(b.EndDate)
}

// StatusAt computes the lifecycle state at the given instant.
func (b *Bounty) StatusAt(now time.Time) BountyStatus {
	switch {
	case b.IsFinalized():
		return BountyStatusFinalized
	case b.HasEnded(now):
		return BountyStatusEnded
	default:
		return BountyStatusActive
	}
}

// BountyPatch carries the fields of a partial update. A nil pointer means the
// field was not part of the request.
type BountyPatch struct {
	Title         *string
	Description   *string
	Requirements  *Requirements
	CategoryID    *string
	EndDate       *time.Time
	Prizes        *PrizeLadder
	TokenSymbol   *string
	TokenAddress  *string
	IsCustomToken *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p BountyPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Requirements == nil &&
		p.CategoryID == nil && p.EndDate == nil && p.Prizes == nil &&
		p.TokenSymbol == nil && p.TokenAddress == nil && p.IsCustomToken == nil
}

// Apply copies every present field onto b.
func (p BountyPatch) Apply(b *Bounty) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Requirements != nil {
		b.Requirements = *p.Requirements
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Prizes != nil {
		b.Prizes = *p.Prizes
	}
	if p.TokenSymbol != nil {
		b.TokenSymbol = *p.TokenSymbol
	}
	if p.TokenAddress != nil {
		b.TokenAddress = *p.TokenAddress
	}
	if p.IsCustomToken != nil {
		b.IsCustomToken = *p.IsCustomToken
	}
}
