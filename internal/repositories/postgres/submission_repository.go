package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ repositories.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository handles PostgreSQL operations for Submission
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// FindByID finds a submission by ID
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var row submissionRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.model(), nil
}

// FindByWalletAndBounty finds the submission of a wallet for a bounty
func (r *SubmissionRepository) FindByWalletAndBounty(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error) {
	var row submissionRow
	err := r.db.WithContext(ctx).
		Where("bounty_id = ? AND wallet_address = ?", bountyID, walletAddress).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return row.model(), nil
}

// FindByBountyID lists the submissions of a bounty, oldest first
func (r *SubmissionRepository) FindByBountyID(ctx context.Context, bountyID string) ([]*models.Submission, error) {
	var rows []submissionRow
	if err := r.db.WithContext(ctx).Where("bounty_id = ?", bountyID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	submissions := make([]*models.Submission, 0, len(rows))
	for i := range rows {
		submissions = append(submissions, rows[i].model())
	}
	return submissions, nil
}

// Upsert relies on ON CONFLICT (bounty_id, wallet_address) so concurrent
// submissions from one wallet collapse into a single row.
func (r *SubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (bool, error) {
	now := time.Now().UTC()
	newID := uuid.NewString()
	row := newSubmissionRow(submission)
	row.ID = newID
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "bounty_id"}, {Name: "wallet_address"}},
				DoUpdates: clause.AssignmentColumns([]string{"twitter_handle", "tweet_link", "extra_info", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(row).Error
	if err != nil {
		return false, translate(err)
	}
	*submission = *row.model()
	return row.ID == newID, nil
}

// Update applies the present fields of patch to a submission
func (r *SubmissionRepository) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.TwitterHandle != nil {
		updates["twitter_handle"] = *patch.TwitterHandle
	}
	if patch.TweetLink != nil {
		updates["tweet_link"] = *patch.TweetLink
	}
	if patch.ExtraInfo != nil {
		updates["extra_info"] = *patch.ExtraInfo
	}

	var rows []submissionRow
	res := r.db.WithContext(ctx).Model(&rows).Clauses(clause.Returning{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return rows[0].model(), nil
}

// DeleteByBountyID removes all submissions of a bounty
func (r *SubmissionRepository) DeleteByBountyID(ctx context.Context, bountyID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("bounty_id = ?", bountyID).Delete(&submissionRow{})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}
