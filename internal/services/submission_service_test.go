package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionService_CreateAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBounty(t, f.now.Add(time.Hour))

	sub, created, err := f.submissions.Create(ctx, &models.Submission{
		BountyID:      b.ID,
		WalletAddress: adminWallet,
		TwitterHandle: "@cat",
		TweetLink:     "https://x.com/cat/status/1",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", sub.WalletAddress)

	found, err := f.submissions.Find(ctx, b.ID, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sub.ID, found.ID)

	again, created, err := f.submissions.Create(ctx, &models.Submission{
		BountyID:      b.ID,
		WalletAddress: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		TweetLink:     "https://x.com/cat/status/2",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, "https://x.com/cat/status/2", again.TweetLink)

	none, err := f.submissions.Find(ctx, b.ID, outsiderWallet)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubmissionService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBounty(t, f.now.Add(time.Hour))
	ended := f.createBounty(t, f.now.Add(-time.Hour))

	tests := []struct {
		name     string
		sub      *models.Submission
		wantKind error
	}{
		{"missing wallet", &models.Submission{BountyID: b.ID}, ErrValidation},
		{"missing bounty", &models.Submission{WalletAddress: outsiderWallet}, ErrValidation},
		{"malformed wallet", &models.Submission{BountyID: b.ID, WalletAddress: "0xnope"}, ErrValidation},
		{"unknown bounty", &models.Submission{BountyID: "missing", WalletAddress: outsiderWallet}, ErrNotFound},
		{"ended bounty", &models.Submission{BountyID: ended.ID, WalletAddress: outsiderWallet}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.submissions.Create(ctx, tt.sub)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestSubmissionService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBounty(t, f.now.Add(time.Hour))
	sub := f.submit(t, b.ID, outsiderWallet)
	link := "https://x.com/hosico/status/99"

	_, err := f.submissions.Update(ctx, outsiderWallet, "missing", models.SubmissionPatch{TweetLink: &link})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.submissions.Update(ctx, adminWallet, sub.ID, models.SubmissionPatch{TweetLink: &link})
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := f.submissions.Update(ctx, outsiderWallet, sub.ID, models.SubmissionPatch{TweetLink: &link})
	require.NoError(t, err)
	assert.Equal(t, link, updated.TweetLink)
	assert.Equal(t, "@hosico", updated.TwitterHandle)

	f.now = b.EndDate
	_, err = f.submissions.Update(ctx, outsiderWallet, sub.ID, models.SubmissionPatch{TweetLink: &link})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "bounty has ended")
}

func TestSubmissionService_ConcurrentCreateKeepsOnePerWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBounty(t, f.now.Add(time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wallet := outsiderWallet
			if i%2 == 0 {
				wallet = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
			}
			_, _, err := f.submissions.Create(ctx, &models.Submission{
				BountyID:      b.ID,
				WalletAddress: wallet,
				TweetLink:     fmt.Sprintf("https://x.com/hosico/status/%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	subs, err := f.store.Submissions.FindByBountyID(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1, "checksummed and lower-case forms are the same wallet")
}
