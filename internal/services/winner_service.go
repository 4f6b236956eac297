package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/utils"
	"golang.org/x/exp/slog"
)

var _ WinnerService = (*WinnerServiceImpl)(nil)

// WinnerServiceImpl finalizes bounties by recording their winners
type WinnerServiceImpl struct {
	bountyRepo     repositories.BountyRepository
	submissionRepo repositories.SubmissionRepository
	gate           *AuthorizationGate
	prizes         *PrizeAggregator
	opts           options
}

// NewWinnerService creates a new WinnerServiceImpl
func NewWinnerService(
	bountyRepo repositories.BountyRepository,
	submissionRepo repositories.SubmissionRepository,
	gate *AuthorizationGate,
	opts ...Option,
) *WinnerServiceImpl {
	return &WinnerServiceImpl{
		bountyRepo:     bountyRepo,
		submissionRepo: submissionRepo,
		gate:           gate,
		prizes:         NewPrizeAggregator(),
		opts:           newOptions(opts),
	}
}

// SelectWinners checks, in order: the allowlist, that winners are unset,
// that the bounty has ended, that every entry names a submission of this
// bounty and a ladder place, and that no place is used twice. The mapping is
// then stored with a single write conditional on winners still being unset.
func (s *WinnerServiceImpl) SelectWinners(ctx context.Context, walletAddress, bountyID string, assignment map[string]string) (*models.Bounty, error) {
	admin, err := s.gate.Authorize(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	bountyID = strings.TrimSpace(bountyID)
	if bountyID == "" {
		return nil, validationError("bounty id is required")
	}

	bounty, err := s.bountyRepo.FindByID(ctx, bountyID)
	if err != nil {
		return nil, fromRepository("bounty", "load bounty", err)
	}
	if bounty.IsFinalized() {
		return nil, alreadyFinalizedError()
	}
	now := s.opts.now()
	if !bounty.HasEnded(now) {
		return nil, validationError("bounty has not ended")
	}

	winners, err := s.buildWinners(ctx, bounty, assignment)
	if err != nil {
		return nil, err
	}

	// The end date is checked again inside the write; an update may have moved it.
	finalized, err := s.bountyRepo.SetWinnersIfAbsent(ctx, bountyID, winners, admin, now)
	if err != nil {
		if errors.Is(err, repositories.ErrConditionFailed) || errors.Is(err, repositories.ErrNotEnded) {
			slog.Warn("Lost race to finalize bounty", "bountyId", bountyID, "wallet", utils.MaskWallet(admin), "error", err)
		}
		return nil, fromRepository("bounty", "save winners", err)
	}
	slog.Info("Winners selected", "bountyId", bountyID, "winners", len(winners), "by", utils.MaskWallet(admin))
	decorateBounty(finalized, s.prizes, now)
	return finalized, nil
}

func (s *WinnerServiceImpl) buildWinners(ctx context.Context, bounty *models.Bounty, assignment map[string]string) (models.Winners, error) {
	submissions, err := s.submissionRepo.FindByBountyID(ctx, bounty.ID)
	if err != nil {
		return nil, storeError("load submissions", err)
	}
	known := make(map[string]bool, len(submissions))
	for _, sub := range submissions {
		known[sub.ID] = true
	}
	places := bounty.Prizes.Places()

	ids := make([]string, 0, len(assignment))
	for id := range assignment {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	winners := make(models.Winners, len(assignment))
	for _, id := range ids {
		place := strings.TrimSpace(assignment[id])
		if models.IsNoPrize(place) {
			continue
		}
		if !known[id] {
			return nil, validationError("submission %q does not belong to this bounty", id)
		}
		if !places[place] {
			return nil, validationError("unknown prize position %q", place)
		}
		winners[id] = place
	}
	if len(winners) == 0 {
		return nil, validationError("no winners selected")
	}

	used := make(map[string]bool, len(winners))
	for _, id := range ids {
		place, ok := winners[id]
		if !ok {
			continue
		}
		if used[place] {
			return nil, validationError("duplicate prize position %q", place)
		}
		used[place] = true
	}
	return winners, nil
}
