package services

import (
	"context"

	"github.com/hosico-labs/bounty-backend/internal/models"
)

// BountyService defines the interface for bounty-related operations
type BountyService interface {
	// Create persists a new bounty after the wallet passes the authorization gate
	Create(ctx context.Context, walletAddress string, bounty *models.Bounty) (*models.Bounty, error)

	// Update applies only the fields present in patch
	Update(ctx context.Context, walletAddress, id string, patch models.BountyPatch) (*models.Bounty, error)

	// Delete removes a bounty and returns the deleted record
	Delete(ctx context.Context, walletAddress, id string) (*models.Bounty, error)

	// Get returns a bounty joined with its category and submissions
	Get(ctx context.Context, id string) (*models.Bounty, error)

	// List returns every bounty, newest first, joined with its category
	List(ctx context.Context) ([]*models.Bounty, error)

	// Categories returns the categories a bounty can reference
	Categories(ctx context.Context) ([]*models.Category, error)
}

// SubmissionService defines the interface for submission-related operations
type SubmissionService interface {
	// Find returns the wallet's submission for a bounty, or nil when there is none
	Find(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error)

	// Create inserts or refreshes the wallet's single submission for a bounty.
	// created is false when an existing entry was updated.
	Create(ctx context.Context, submission *models.Submission) (sub *models.Submission, created bool, err error)

	// Update changes a submission on behalf of its owner
	Update(ctx context.Context, walletAddress, id string, patch models.SubmissionPatch) (*models.Submission, error)
}

// WinnerService defines the interface for finalizing bounties
type WinnerService interface {
	// SelectWinners assigns submissions to prize places exactly once
	SelectWinners(ctx context.Context, walletAddress, bountyID string, assignment map[string]string) (*models.Bounty, error)
}
