package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/utils"
	"golang.org/x/exp/slog"
)

var _ SubmissionService = (*SubmissionServiceImpl)(nil)

// SubmissionServiceImpl enforces one submission per wallet per bounty
type SubmissionServiceImpl struct {
	bountyRepo     repositories.BountyRepository
	submissionRepo repositories.SubmissionRepository
	opts           options
}

// NewSubmissionService creates a new SubmissionServiceImpl
func NewSubmissionService(
	bountyRepo repositories.BountyRepository,
	submissionRepo repositories.SubmissionRepository,
	opts ...Option,
) *SubmissionServiceImpl {
	return &SubmissionServiceImpl{
		bountyRepo:     bountyRepo,
		submissionRepo: submissionRepo,
		opts:           newOptions(opts),
	}
}

// Find returns nil without error when the wallet has not submitted
func (s *SubmissionServiceImpl) Find(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error) {
	bountyID = strings.TrimSpace(bountyID)
	if bountyID == "" {
		return nil, validationError("bounty id is required")
	}
	wallet, err := normalizeWallet(walletAddress)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.FindByWalletAndBounty(ctx, bountyID, wallet)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("load submission", err)
	}
	return submission, nil
}

// Create upserts the submission keyed on (bounty, wallet)
func (s *SubmissionServiceImpl) Create(ctx context.Context, submission *models.Submission) (*models.Submission, bool, error) {
	if submission == nil {
		return nil, false, validationError("submission is required")
	}
	submission.BountyID = strings.TrimSpace(submission.BountyID)
	if submission.BountyID == "" {
		return nil, false, validationError("bounty id is required")
	}
	wallet, err := normalizeWallet(submission.WalletAddress)
	if err != nil {
		return nil, false, err
	}
	submission.WalletAddress = wallet
	submission.TwitterHandle = strings.TrimSpace(submission.TwitterHandle)
	submission.TweetLink = strings.TrimSpace(submission.TweetLink)

	if err := s.ensureOpen(ctx, submission.BountyID); err != nil {
		return nil, false, err
	}

	created, err := s.submissionRepo.Upsert(ctx, submission)
	if err != nil {
		slog.Error("Failed to upsert submission", "error", err, "bountyId", submission.BountyID)
		return nil, false, storeError("save submission", err)
	}
	slog.Info("Submission saved", "bountyId", submission.BountyID, "wallet", utils.MaskWallet(wallet), "created", created)
	return submission, created, nil
}

// Update changes a submission if the caller owns it and the bounty is still open
func (s *SubmissionServiceImpl) Update(ctx context.Context, walletAddress, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationError("submission id is required")
	}
	existing, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepository("submission", "load submission", err)
	}

	caller, _, err := utils.NormalizeWalletAddress(strings.TrimSpace(walletAddress))
	if err != nil || caller != existing.WalletAddress {
		slog.Warn("Rejected submission update by non-owner", "submissionId", id, "wallet", utils.MaskWallet(walletAddress))
		return nil, unauthorizedError("only the submitter can update this submission")
	}
	if err := s.ensureOpen(ctx, existing.BountyID); err != nil {
		return nil, err
	}

	updated, err := s.submissionRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fromRepository("submission", "update submission", err)
	}
	return updated, nil
}

// ensureOpen fails unless the bounty exists and is still accepting entries.
func (s *SubmissionServiceImpl) ensureOpen(ctx context.Context, bountyID string) error {
	bounty, err := s.bountyRepo.FindByID(ctx, bountyID)
	if err != nil {
		return fromRepository("bounty", "load bounty", err)
	}
	if bounty.StatusAt(s.opts.now()) != models.BountyStatusActive {
		return validationError("bounty has ended")
	}
	return nil
}

func normalizeWallet(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", validationError("wallet address is required")
	}
	canonical, _, err := utils.NormalizeWalletAddress(addr)
	if err != nil {
		return "", validationError("invalid wallet address")
	}
	return canonical, nil
}
