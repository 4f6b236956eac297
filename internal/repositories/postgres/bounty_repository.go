package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ repositories.BountyRepository = (*BountyRepository)(nil)

// BountyRepository handles PostgreSQL operations for Bounty
type BountyRepository struct {
	db *gorm.DB
}

// NewBountyRepository creates a new BountyRepository
func NewBountyRepository(db *gorm.DB) *BountyRepository {
	return &BountyRepository{db: db}
}

// Create inserts a new bounty with winners NULL
func (r *BountyRepository) Create(ctx context.Context, bounty *models.Bounty) error {
	now := time.Now().UTC()
	bounty.ID = uuid.NewString()
	bounty.Winners = nil
	bounty.FinalizedAt = nil
	bounty.FinalizedBy = ""
	bounty.CreatedAt = now
	bounty.UpdatedAt = now

	row, err := newBountyRow(bounty)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByID finds a bounty by ID
func (r *BountyRepository) FindByID(ctx context.Context, id string) (*models.Bounty, error) {
	var row bountyRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.model()
}

// FindAll returns all bounties ordered by created_at descending
func (r *BountyRepository) FindAll(ctx context.Context) ([]*models.Bounty, error) {
	var rows []bountyRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	bounties := make([]*models.Bounty, 0, len(rows))
	for i := range rows {
		b, err := rows[i].model()
		if err != nil {
			return nil, err
		}
		bounties = append(bounties, b)
	}
	return bounties, nil
}

// UpdateIfNotFinalized applies patch with a WHERE winners IS NULL guard
func (r *BountyRepository) UpdateIfNotFinalized(ctx context.Context, id string, patch models.BountyPatch) (*models.Bounty, error) {
	updates, err := patchToColumns(patch)
	if err != nil {
		return nil, err
	}
	updates["updated_at"] = time.Now().UTC()
	return r.conditionalUpdate(ctx, id, updates, time.Time{})
}

// SetWinnersIfAbsent writes winners in one statement guarded by
// winners IS NULL AND end_date <= endedBy
func (r *BountyRepository) SetWinnersIfAbsent(ctx context.Context, id string, winners models.Winners, finalizedBy string, endedBy time.Time) (*models.Bounty, error) {
	encoded, err := toJSON(winners)
	if err != nil {
		return nil, fmt.Errorf("encode winners: %w", err)
	}
	now := time.Now().UTC()
	return r.conditionalUpdate(ctx, id, map[string]any{
		"winners":      encoded,
		"finalized_at": now,
		"finalized_by": finalizedBy,
		"updated_at":   now,
	}, endedBy)
}

func (r *BountyRepository) conditionalUpdate(ctx context.Context, id string, updates map[string]any, endedBy time.Time) (*models.Bounty, error) {
	var rows []bountyRow
	tx := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ? AND winners IS NULL", id)
	if !endedBy.IsZero() {
		tx = tx.Where("end_date <= ?", endedBy)
	}
	res := tx.Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 1 && len(rows) == 1 {
		return rows[0].model()
	}

	current, err := r.FindByID(ctx, id)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return nil, repositories.ExplainMiss(current, endedBy)
}

// Delete removes a bounty and returns the deleted row
func (r *BountyRepository) Delete(ctx context.Context, id string) (*models.Bounty, error) {
	var rows []bountyRow
	res := r.db.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&rows)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return rows[0].model()
}

func patchToColumns(patch models.BountyPatch) (map[string]any, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Requirements != nil {
		encoded, err := toJSON(*patch.Requirements)
		if err != nil {
			return nil, fmt.Errorf("encode requirements: %w", err)
		}
		updates["requirements"] = encoded
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.EndDate != nil {
		updates["end_date"] = *patch.EndDate
	}
	if patch.Prizes != nil {
		encoded, err := toJSON(*patch.Prizes)
		if err != nil {
			return nil, fmt.Errorf("encode prizes: %w", err)
		}
		updates["prizes"] = encoded
	}
	if patch.TokenSymbol != nil {
		updates["token_symbol"] = *patch.TokenSymbol
	}
	if patch.TokenAddress != nil {
		updates["token_address"] = *patch.TokenAddress
	}
	if patch.IsCustomToken != nil {
		updates["is_custom_token"] = *patch.IsCustomToken
	}
	return updates, nil
}
