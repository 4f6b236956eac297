package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"gorm.io/gorm"
)

// NewStore wires all PostgreSQL repositories against db.
func NewStore(db *gorm.DB) *repositories.Store {
	return &repositories.Store{
		Bounties:     NewBountyRepository(db),
		Submissions:  NewSubmissionRepository(db),
		Categories:   NewCategoryRepository(db),
		AdminWallets: NewAdminWalletRepository(db),
	}
}

// Migrate creates or updates the tables, including the unique index on
// submissions (bounty_id, wallet_address).
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&bountyRow{},
		&submissionRow{},
		&categoryRow{},
		&adminWalletRow{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	default:
		return err
	}
}
