// Package memory provides mutex-guarded repositories for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
)

var (
	_ repositories.BountyRepository      = (*BountyRepository)(nil)
	_ repositories.SubmissionRepository  = (*SubmissionRepository)(nil)
	_ repositories.CategoryRepository    = (*CategoryRepository)(nil)
	_ repositories.AdminWalletRepository = (*AdminWalletRepository)(nil)
)

// NewStore returns an empty in-memory store.
func NewStore() *repositories.Store {
	return &repositories.Store{
		Bounties:     NewBountyRepository(),
		Submissions:  NewSubmissionRepository(),
		Categories:   NewCategoryRepository(),
		AdminWallets: NewAdminWalletRepository(),
		Ping:         func(ctx context.Context) error { return ctx.Err() },
		Close:        func(context.Context) error { return nil },
	}
}

// BountyRepository keeps bounties in a map
type BountyRepository struct {
	mu       sync.RWMutex
	bounties map[string]*models.Bounty
	seq      int64
	order    map[string]int64
}

// NewBountyRepository creates an empty BountyRepository
func NewBountyRepository() *BountyRepository {
	return &BountyRepository{
		bounties: make(map[string]*models.Bounty),
		order:    make(map[string]int64),
	}
}

func (r *BountyRepository) Create(ctx context.Context, bounty *models.Bounty) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	bounty.ID = uuid.NewString()
	bounty.Winners = nil
	bounty.FinalizedAt = nil
	bounty.FinalizedBy = ""
	bounty.CreatedAt = now
	bounty.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.order[bounty.ID] = r.seq
	r.bounties[bounty.ID] = cloneBounty(bounty)
	return nil
}

func (r *BountyRepository) FindByID(ctx context.Context, id string) (*models.Bounty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bounties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneBounty(b), nil
}

// FindAll returns bounties newest first; insertion order breaks timestamp ties
func (r *BountyRepository) FindAll(ctx context.Context) ([]*models.Bounty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Bounty, 0, len(r.bounties))
	for _, b := range r.bounties {
		out = append(out, cloneBounty(b))
	}
	sort.Slice(out, func(i, j int) bool {
		return r.order[out[i].ID] > r.order[out[j].ID]
	})
	return out, nil
}

func (r *BountyRepository) UpdateIfNotFinalized(ctx context.Context, id string, patch models.BountyPatch) (*models.Bounty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bounties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if b.IsFinalized() {
		return nil, repositories.ErrConditionFailed
	}
	patch.Apply(b)
	b.UpdatedAt = time.Now().UTC()
	return cloneBounty(b), nil
}

func (r *BountyRepository) SetWinnersIfAbsent(ctx context.Context, id string, winners models.Winners, finalizedBy string, endedBy time.Time) (*models.Bounty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bounties[id]
	if b == nil || b.IsFinalized() || !b.HasEnded(endedBy) {
		return nil, repositories.ExplainMiss(b, endedBy)
	}
	now := time.Now().UTC()
	b.Winners = cloneWinners(winners)
	b.FinalizedAt = &now
	b.FinalizedBy = finalizedBy
	b.UpdatedAt = now
	return cloneBounty(b), nil
}

func (r *BountyRepository) Delete(ctx context.Context, id string) (*models.Bounty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bounties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(r.bounties, id)
	delete(r.order, id)
	return b, nil
}

// SubmissionRepository keeps submissions keyed by id with a
// (bounty, wallet) index enforcing uniqueness
type SubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
	byWallet    map[walletKey]string
}

type walletKey struct {
	bountyID string
	wallet   string
}

// NewSubmissionRepository creates an empty SubmissionRepository
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{
		submissions: make(map[string]*models.Submission),
		byWallet:    make(map[walletKey]string),
	}
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *SubmissionRepository) FindByWalletAndBounty(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byWallet[walletKey{bountyID, walletAddress}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r.submissions[id]
	return &cp, nil
}

func (r *SubmissionRepository) FindByBountyID(ctx context.Context, bountyID string) ([]*models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Submission{}
	for _, s := range r.submissions {
		if s.BountyID == bountyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *SubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := time.Now().UTC()
	key := walletKey{submission.BountyID, submission.WalletAddress}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byWallet[key]; ok {
		existing := r.submissions[id]
		existing.TwitterHandle = submission.TwitterHandle
		existing.TweetLink = submission.TweetLink
		existing.ExtraInfo = submission.ExtraInfo
		existing.UpdatedAt = now
		*submission = *existing
		return false, nil
	}

	stored := *submission
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.submissions[stored.ID] = &stored
	r.byWallet[key] = stored.ID
	*submission = stored
	return true, nil
}

func (r *SubmissionRepository) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	patch.Apply(s)
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

func (r *SubmissionRepository) DeleteByBountyID(ctx context.Context, bountyID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.submissions {
		if s.BountyID == bountyID {
			delete(r.byWallet, walletKey{s.BountyID, s.WalletAddress})
			delete(r.submissions, id)
			n++
		}
	}
	return n, nil
}

// CategoryRepository keeps categories in a map
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*models.Category
}

// NewCategoryRepository creates an empty CategoryRepository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[string]*models.Category)}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == category.Name {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now
	cp := *category
	r.categories[cp.ID] = &cp
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AdminWalletRepository keeps the allowlist in a map keyed by address
type AdminWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*models.AdminWallet
}

// NewAdminWalletRepository creates an empty AdminWalletRepository
func NewAdminWalletRepository() *AdminWalletRepository {
	return &AdminWalletRepository{wallets: make(map[string]*models.AdminWallet)}
}

func (r *AdminWalletRepository) Add(ctx context.Context, wallet *models.AdminWallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.wallets[wallet.WalletAddress]; ok {
		existing.Label = wallet.Label
		return nil
	}
	cp := *wallet
	cp.ID = uuid.NewString()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.wallets[cp.WalletAddress] = &cp
	return nil
}

func (r *AdminWalletRepository) Remove(ctx context.Context, walletAddress string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[walletAddress]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.wallets, walletAddress)
	return nil
}

func (r *AdminWalletRepository) Exists(ctx context.Context, walletAddress string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.wallets[walletAddress]
	return ok, nil
}

func (r *AdminWalletRepository) FindAll(ctx context.Context) ([]*models.AdminWallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.AdminWallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WalletAddress < out[j].WalletAddress })
	return out, nil
}

func cloneBounty(b *models.Bounty) *models.Bounty {
	cp := *b
	cp.Requirements = append(models.Requirements(nil), b.Requirements...)
	cp.Prizes = append(models.PrizeLadder(nil), b.Prizes...)
	cp.Winners = cloneWinners(b.Winners)
	if b.FinalizedAt != nil {
		t := *b.FinalizedAt
		cp.FinalizedAt = &t
	}
	return &cp
}

func cloneWinners(w models.Winners) models.Winners {
	if w == nil {
		return nil
	}
	cp := make(models.Winners, len(w))
	for k, v := range w {
		cp[k] = v
	}
	return cp
}
