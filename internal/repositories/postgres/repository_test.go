package postgres

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// sqlRecorder keeps every statement gorm renders.
type sqlRecorder struct {
	logger.Interface
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, sql)
}

// find returns the first statement starting with prefix.
func (r *sqlRecorder) find(t *testing.T, prefix string) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statements {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	t.Fatalf("no %q statement in %v", prefix, r.statements)
	return ""
}

// newDryRunDB builds statements without ever reaching a server.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{Interface: logger.Discard}
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=bounty dbname=bounty sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestBountyRepository_SetWinnersIsOneGuardedUpdate(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewBountyRepository(db)
	endedBy := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, _ = repo.SetWinnersIfAbsent(context.Background(), "b1", models.Winners{"s1": "1st"}, "0xabc", endedBy)

	update := rec.find(t, "UPDATE")
	assert.Contains(t, update, `UPDATE "bounties" SET`)
	assert.Contains(t, update, `"winners"=`)
	assert.Contains(t, update, "id = 'b1'")
	assert.Contains(t, update, "winners IS NULL")
	assert.Contains(t, update, "end_date <= '2026-03-01 12:00:00")
	assert.Contains(t, update, "RETURNING")

	// A miss is explained from a fresh read.
	assert.Contains(t, rec.find(t, "SELECT"), `FROM "bounties" WHERE id = 'b1'`)
}

func TestBountyRepository_UpdateHasNoEndDateGuard(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewBountyRepository(db)
	title := "Renamed"

	_, _ = repo.UpdateIfNotFinalized(context.Background(), "b1", models.BountyPatch{Title: &title})

	update := rec.find(t, "UPDATE")
	assert.Contains(t, update, `"title"='Renamed'`)
	assert.Contains(t, update, "winners IS NULL")
	assert.NotContains(t, update, "end_date <=")
}

func TestBountyRepository_DeleteReturnsRow(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewBountyRepository(db)

	_, _ = repo.Delete(context.Background(), "b1")

	del := rec.find(t, "DELETE")
	assert.Contains(t, del, `DELETE FROM "bounties" WHERE id = 'b1'`)
	assert.Contains(t, del, "RETURNING")
}

func TestSubmissionRepository_UpsertOnConflict(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewSubmissionRepository(db)

	_, _ = repo.Upsert(context.Background(), &models.Submission{
		BountyID:      "b1",
		WalletAddress: "0xabc",
		TwitterHandle: "@hosico",
	})

	insert := rec.find(t, "INSERT")
	assert.Contains(t, insert, `INSERT INTO "submissions"`)
	assert.Contains(t, insert, `ON CONFLICT ("bounty_id","wallet_address") DO UPDATE SET`)
	assert.Contains(t, insert, `"twitter_handle"="excluded"."twitter_handle"`)
	assert.NotContains(t, insert, `"id"="excluded"."id"`, "the stored id must survive a conflict")
	assert.Contains(t, insert, "RETURNING")
}

func TestRowIndexes(t *testing.T) {
	unique := func(t *testing.T, row any) map[string][]string {
		t.Helper()
		s, err := schema.Parse(row, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		out := map[string][]string{}
		for _, idx := range s.ParseIndexes() {
			if idx.Class != "UNIQUE" {
				continue
			}
			for _, f := range idx.Fields {
				out[idx.Name] = append(out[idx.Name], f.DBName)
			}
		}
		return out
	}

	assert.ElementsMatch(t, []string{"bounty_id", "wallet_address"}, unique(t, &submissionRow{})["uniq_bounty_wallet"])
	assert.Equal(t, []string{"name"}, unique(t, &categoryRow{})["uniq_category_name"])
}

func TestBountyRow_UnfinalizedWinnersStayNull(t *testing.T) {
	b := &models.Bounty{
		ID:           "b1",
		Requirements: models.Requirements{"Follow @hosico"},
		Prizes:       models.PrizeLadder{{Place: "1st", Amount: "500"}},
	}
	row, err := newBountyRow(b)
	require.NoError(t, err)
	assert.Nil(t, row.Winners)

	back, err := row.model()
	require.NoError(t, err)
	assert.False(t, back.IsFinalized())
	assert.Equal(t, b.Prizes, back.Prizes)

	b.Winners = models.Winners{"s1": "1st"}
	row, err = newBountyRow(b)
	require.NoError(t, err)
	back, err = row.model()
	require.NoError(t, err)
	assert.Equal(t, models.Winners{"s1": "1st"}, back.Winners)
}
