package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/utils"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

var _ BountyService = (*BountyServiceImpl)(nil)

// BountyServiceImpl handles bounty CRUD
type BountyServiceImpl struct {
	bountyRepo     repositories.BountyRepository
	submissionRepo repositories.SubmissionRepository
	categoryRepo   repositories.CategoryRepository
	gate           *AuthorizationGate
	prizes         *PrizeAggregator
	opts           options
}

// NewBountyService creates a new BountyServiceImpl
func NewBountyService(
	bountyRepo repositories.BountyRepository,
	submissionRepo repositories.SubmissionRepository,
	categoryRepo repositories.CategoryRepository,
	gate *AuthorizationGate,
	opts ...Option,
) *BountyServiceImpl {
	return &BountyServiceImpl{
		bountyRepo:     bountyRepo,
		submissionRepo: submissionRepo,
		categoryRepo:   categoryRepo,
		gate:           gate,
		prizes:         NewPrizeAggregator(),
		opts:           newOptions(opts),
	}
}

// Create validates and persists a new bounty with winners absent
func (s *BountyServiceImpl) Create(ctx context.Context, walletAddress string, bounty *models.Bounty) (*models.Bounty, error) {
	if _, err := s.gate.Authorize(ctx, walletAddress); err != nil {
		return nil, err
	}
	if bounty == nil {
		return nil, validationError("bounty is required")
	}

	bounty.Title = strings.TrimSpace(bounty.Title)
	bounty.CategoryID = strings.TrimSpace(bounty.CategoryID)
	switch {
	case bounty.Title == "":
		return nil, validationError("title is required")
	case strings.TrimSpace(bounty.Description) == "":
		return nil, validationError("description is required")
	case len(bounty.Requirements) == 0:
		return nil, validationError("requirements are required")
	case bounty.CategoryID == "":
		return nil, validationError("category is required")
	case bounty.EndDate.IsZero():
		return nil, validationError("end date is required")
	}
	if err := ValidateLadder(bounty.Prizes); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, bounty.CategoryID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(bounty.TokenSymbol) == "" {
		bounty.TokenSymbol = s.opts.defaultTokenSymbol
	}
	if s.prizes.Warning(bounty.Prizes) {
		slog.Warn("Bounty prize ladder totals zero", "title", bounty.Title)
	}

	if err := s.bountyRepo.Create(ctx, bounty); err != nil {
		slog.Error("Failed to create bounty", "error", err)
		return nil, storeError("create bounty", err)
	}
	slog.Info("Bounty created", "bountyId", bounty.ID, "endDate", bounty.EndDate, "total", s.prizes.Total(bounty.Prizes).String())
	s.decorate(bounty)
	return bounty, nil
}

// Update applies the present fields of patch while the bounty is not finalized
func (s *BountyServiceImpl) Update(ctx context.Context, walletAddress, id string, patch models.BountyPatch) (*models.Bounty, error) {
	if _, err := s.gate.Authorize(ctx, walletAddress); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationError("bounty id is required")
	}
	if patch.IsEmpty() {
		return nil, validationError("no fields to update")
	}
	if patch.Prizes != nil {
		if err := ValidateLadder(*patch.Prizes); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID != nil && strings.TrimSpace(*patch.CategoryID) != "" {
		if err := s.ensureCategory(ctx, strings.TrimSpace(*patch.CategoryID)); err != nil {
			return nil, err
		}
	}

	bounty, err := s.bountyRepo.UpdateIfNotFinalized(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrConditionFailed) {
			slog.Warn("Rejected update of finalized bounty", "bountyId", id)
		}
		return nil, fromRepository("bounty", "update bounty", err)
	}
	slog.Info("Bounty updated", "bountyId", id)
	s.decorate(bounty)
	return bounty, nil
}

// Delete removes a bounty and then, best effort, its submissions
func (s *BountyServiceImpl) Delete(ctx context.Context, walletAddress, id string) (*models.Bounty, error) {
	admin, err := s.gate.Authorize(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationError("bounty id is required")
	}

	bounty, err := s.bountyRepo.Delete(ctx, id)
	if err != nil {
		return nil, fromRepository("bounty", "delete bounty", err)
	}
	if n, err := s.submissionRepo.DeleteByBountyID(ctx, id); err != nil {
		slog.Warn("Failed to remove submissions of deleted bounty", "error", err, "bountyId", id)
	} else if n > 0 {
		slog.Info("Removed submissions of deleted bounty", "bountyId", id, "count", n)
	}
	slog.Info("Bounty deleted", "bountyId", id, "by", utils.MaskWallet(admin))
	s.decorate(bounty)
	return bounty, nil
}

// Get returns a bounty joined with its category and submissions
func (s *BountyServiceImpl) Get(ctx context.Context, id string) (*models.Bounty, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationError("bounty id is required")
	}
	bounty, err := s.bountyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepository("bounty", "load bounty", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := s.findCategory(gctx, bounty.CategoryID)
		bounty.Category = category
		return err
	})
	g.Go(func() error {
		submissions, err := s.submissionRepo.FindByBountyID(gctx, id)
		if err != nil {
			return storeError("load submissions", err)
		}
		bounty.Submissions = submissions
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.decorate(bounty)
	return bounty, nil
}

// List returns all bounties, newest first, each joined with its category
func (s *BountyServiceImpl) List(ctx context.Context) ([]*models.Bounty, error) {
	var (
		bounties   []*models.Bounty
		categories []*models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if bounties, err = s.bountyRepo.FindAll(gctx); err != nil {
			return storeError("list bounties", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = s.categoryRepo.FindAll(gctx); err != nil {
			return storeError("list categories", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for _, b := range bounties {
		b.Category = byID[b.CategoryID]
		s.decorate(b)
	}
	return bounties, nil
}

// Categories returns every category
func (s *BountyServiceImpl) Categories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

func (s *BountyServiceImpl) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validationError("category %q does not exist", id)
		}
		return storeError("load category", err)
	}
	return nil
}

// findCategory tolerates a dangling category reference.
func (s *BountyServiceImpl) findCategory(ctx context.Context, id string) (*models.Category, error) {
	if id == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.FindByID(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, storeError("load category", err)
	}
	return category, nil
}

func (s *BountyServiceImpl) decorate(b *models.Bounty) {
	decorateBounty(b, s.prizes, s.opts.now())
}

func decorateBounty(b *models.Bounty, prizes *PrizeAggregator, now time.Time) {
	b.Status = b.StatusAt(now)
	b.TotalPrize = prizes.Total(b.Prizes).String()
}
