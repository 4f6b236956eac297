package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup or a targeted write matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConditionFailed is returned when a conditional write found the record
	// but its precondition no longer held (e.g. winners already set).
	ErrConditionFailed = errors.New("write precondition failed")
	// ErrNotEnded is returned when winners are written before the bounty's end date.
	ErrNotEnded = errors.New("bounty has not ended")
)

// BountyRepository defines the interface for bounty data operations
type BountyRepository interface {
	Create(ctx context.Context, bounty *models.Bounty) error
	FindByID(ctx context.Context, id string) (*models.Bounty, error)
	// FindAll returns every bounty, newest first
	FindAll(ctx context.Context) ([]*models.Bounty, error)
	// UpdateIfNotFinalized applies patch only while winners is absent.
	// It returns ErrNotFound when id does not resolve and ErrConditionFailed
	// when the bounty is already finalized.
	UpdateIfNotFinalized(ctx context.Context, id string, patch models.BountyPatch) (*models.Bounty, error)
	// SetWinnersIfAbsent records winners in one conditional write that also
	// requires end_date <= endedBy. A miss is explained with ExplainMiss.
	SetWinnersIfAbsent(ctx context.Context, id string, winners models.Winners, finalizedBy string, endedBy time.Time) (*models.Bounty, error)
	// Delete removes the bounty and returns the deleted record
	Delete(ctx context.Context, id string) (*models.Bounty, error)
}

// SubmissionRepository defines the interface for submission data operations.
// Implementations enforce uniqueness of (bounty_id, wallet_address).
type SubmissionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	FindByWalletAndBounty(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error)
	FindByBountyID(ctx context.Context, bountyID string) ([]*models.Submission, error)
	// Upsert atomically inserts the submission or updates the existing row for
	// its (bounty_id, wallet_address). created reports which happened.
	Upsert(ctx context.Context, submission *models.Submission) (created bool, err error)
	Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error)
	DeleteByBountyID(ctx context.Context, bountyID string) (int64, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindAll(ctx context.Context) ([]*models.Category, error)
}

// AdminWalletRepository defines the interface for the admin allowlist
type AdminWalletRepository interface {
	// Add inserts the wallet; adding an existing address is a no-op
	Add(ctx context.Context, wallet *models.AdminWallet) error
	Remove(ctx context.Context, walletAddress string) error
	Exists(ctx context.Context, walletAddress string) (bool, error)
	FindAll(ctx context.Context) ([]*models.AdminWallet, error)
}

// Store bundles the repositories of one backing store.
type Store struct {
	Bounties     BountyRepository
	Submissions  SubmissionRepository
	Categories   CategoryRepository
	AdminWallets AdminWalletRepository
	// Ping reports whether the backing store is reachable.
	Ping func(ctx context.Context) error
	// Close releases the underlying connection, if any.
	Close func(ctx context.Context) error
}

// ExplainMiss maps a guarded bounty write that matched nothing to a sentinel,
// given the record re-read afterwards (nil when it no longer exists). A zero
// endedBy means the write carried no end-date guard.
func ExplainMiss(current *models.Bounty, endedBy time.Time) error {
	switch {
	case current == nil:
		return ErrNotFound
	case current.IsFinalized():
		return ErrConditionFailed
	case !endedBy.IsZero() && !current.HasEnded(endedBy):
		return ErrNotEnded
	default:
		return ErrConditionFailed
	}
}
