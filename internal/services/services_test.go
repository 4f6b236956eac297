package services

import (
	"context"
	"testing"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/repositories/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	adminWallet    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	outsiderWallet = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	solanaWallet   = "So11111111111111111111111111111111111111112"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixture wires every service against a fresh in-memory store with a clock
// the test can move.
type fixture struct {
	store       *repositories.Store
	now         time.Time
	category    *models.Category
	bounties    *BountyServiceImpl
	submissions *SubmissionServiceImpl
	winners     *WinnerServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store: memory.NewStore(),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.AdminWallets.Add(ctx, &models.AdminWallet{WalletAddress: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}))
	f.category = &models.Category{Name: "Memes"}
	require.NoError(t, f.store.Categories.Create(ctx, f.category))

	gate := NewAuthorizationGate(NewRepositoryAllowlist(f.store.AdminWallets))
	clock := WithClock(func() time.Time { return f.now })
	f.bounties = NewBountyService(f.store.Bounties, f.store.Submissions, f.store.Categories, gate, clock)
	f.submissions = NewSubmissionService(f.store.Bounties, f.store.Submissions, clock)
	f.winners = NewWinnerService(f.store.Bounties, f.store.Submissions, gate, clock)
	return f
}

func (f *fixture) newBounty(endDate time.Time) *models.Bounty {
	return &models.Bounty{
		Title:        "Best Hosico meme",
		Description:  "Post your best meme",
		Requirements: models.Requirements{"Follow @hosico", "Tag two friends"},
		CategoryID:   f.category.ID,
		EndDate:      endDate,
		Prizes: models.PrizeLadder{
			{Place: "1st", Amount: "500"},
			{Place: "2nd", Amount: "300"},
			{Place: "3rd", Amount: "200"},
		},
	}
}

func (f *fixture) createBounty(t *testing.T, endDate time.Time) *models.Bounty {
	t.Helper()
	b, err := f.bounties.Create(context.Background(), adminWallet, f.newBounty(endDate))
	require.NoError(t, err)
	return b
}

func (f *fixture) submit(t *testing.T, bountyID, wallet string) *models.Submission {
	t.Helper()
	sub, _, err := f.submissions.Create(context.Background(), &models.Submission{
		BountyID:      bountyID,
		WalletAddress: wallet,
		TwitterHandle: "@hosico",
		TweetLink:     "https://x.com/hosico/status/1",
	})
	require.NoError(t, err)
	return sub
}

// submitBeforeDeadline rewinds the clock so an entry can be made for a bounty
// whose end date has already passed.
func (f *fixture) submitBeforeDeadline(t *testing.T, b *models.Bounty, wallet ...string) *models.Submission {
	t.Helper()
	w := outsiderWallet
	if len(wallet) > 0 {
		w = wallet[0]
	}
	saved := f.now
	f.now = b.EndDate.Add(-time.Minute)
	defer func() { f.now = saved }()
	return f.submit(t, b.ID, w)
}
