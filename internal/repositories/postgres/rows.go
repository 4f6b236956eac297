package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"gorm.io/datatypes"
)

// bountyRow is the relational shape of models.Bounty. Winners stays SQL NULL
// until the bounty is finalized.
type bountyRow struct {
	ID            string         `gorm:"primaryKey;type:varchar(64)"`
	Title         string         `gorm:"not null"`
	Description   string         `gorm:"type:text;not null"`
	Requirements  datatypes.JSON `gorm:"type:jsonb"`
	CategoryID    string         `gorm:"type:varchar(64);index"`
	EndDate       time.Time      `gorm:"not null"`
	Prizes        datatypes.JSON `gorm:"type:jsonb"`
	TokenSymbol   string         `gorm:"type:varchar(32)"`
	TokenAddress  string         `gorm:"type:varchar(128)"`
	IsCustomToken bool           `gorm:"not null;default:false"`
	Winners       datatypes.JSON `gorm:"type:jsonb"`
	FinalizedAt   *time.Time
	FinalizedBy   string    `gorm:"type:varchar(128)"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (bountyRow) TableName() string { return "bounties" }

type submissionRow struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)"`
	BountyID      string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_bounty_wallet"`
	WalletAddress string    `gorm:"type:varchar(128);not null;uniqueIndex:uniq_bounty_wallet"`
	TwitterHandle string    `gorm:"type:varchar(128)"`
	TweetLink     string    `gorm:"type:text"`
	ExtraInfo     string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (submissionRow) TableName() string { return "submissions" }

type categoryRow struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	Name      string `gorm:"not null;uniqueIndex:uniq_category_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryRow) TableName() string { return "categories" }

type adminWalletRow struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	WalletAddress string `gorm:"type:varchar(128);not null;uniqueIndex"`
	Label         string
	CreatedAt     time.Time
}

func (adminWalletRow) TableName() string { return "admin_wallets" }

func toJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func newBountyRow(b *models.Bounty) (*bountyRow, error) {
	requirements, err := toJSON(b.Requirements)
	if err != nil {
		return nil, fmt.Errorf("encode requirements: %w", err)
	}
	prizes, err := toJSON(b.Prizes)
	if err != nil {
		return nil, fmt.Errorf("encode prizes: %w", err)
	}
	row := &bountyRow{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		Requirements:  requirements,
		CategoryID:    b.CategoryID,
		EndDate:       b.EndDate,
		Prizes:        prizes,
		TokenSymbol:   b.TokenSymbol,
		TokenAddress:  b.TokenAddress,
		IsCustomToken: b.IsCustomToken,
		FinalizedAt:   b.FinalizedAt,
		FinalizedBy:   b.FinalizedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Winners != nil {
		if row.Winners, err = toJSON(b.Winners); err != nil {
			return nil, fmt.Errorf("encode winners: %w", err)
		}
	}
	return row, nil
}

func (r *bountyRow) model() (*models.Bounty, error) {
	b := &models.Bounty{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		EndDate:       r.EndDate,
		TokenSymbol:   r.TokenSymbol,
		TokenAddress:  r.TokenAddress,
		IsCustomToken: r.IsCustomToken,
		FinalizedAt:   r.FinalizedAt,
		FinalizedBy:   r.FinalizedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if len(r.Requirements) > 0 {
		if err := json.Unmarshal(r.Requirements, &b.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements of bounty %s: %w", r.ID, err)
		}
	}
	if len(r.Prizes) > 0 {
		if err := json.Unmarshal(r.Prizes, &b.Prizes); err != nil {
			return nil, fmt.Errorf("decode prizes of bounty %s: %w", r.ID, err)
		}
	}
	if len(r.Winners) > 0 && string(r.Winners) != "null" {
		if err := json.Unmarshal(r.Winners, &b.Winners); err != nil {
			return nil, fmt.Errorf("decode winners of bounty %s: %w", r.ID, err)
		}
	}
	return b, nil
}

func newSubmissionRow(s *models.Submission) *submissionRow {
	return &submissionRow{
		ID:            s.ID,
		BountyID:      s.BountyID,
		WalletAddress: s.WalletAddress,
		TwitterHandle: s.TwitterHandle,
		TweetLink:     s.TweetLink,
		ExtraInfo:     s.ExtraInfo,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (r *submissionRow) model() *models.Submission {
	return &models.Submission{
		ID:            r.ID,
		BountyID:      r.BountyID,
		WalletAddress: r.WalletAddress,
		TwitterHandle: r.TwitterHandle,
		TweetLink:     r.TweetLink,
		ExtraInfo:     r.ExtraInfo,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
