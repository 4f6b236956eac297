package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	BountiesCollection     = "bounties"
	SubmissionsCollection  = "submissions"
	CategoriesCollection   = "categories"
	AdminWalletsCollection = "admin_wallets"
)

// NewStore wires all MongoDB repositories against db.
func NewStore(db *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Bounties:     NewBountyRepository(db),
		Submissions:  NewSubmissionRepository(db),
		Categories:   NewCategoryRepository(db),
		AdminWallets: NewAdminWalletRepository(db),
	}
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// index on submissions is what enforces one entry per wallet per bounty.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		SubmissionsCollection: {
			{
				Keys:    bson.D{{Key: "bountyId", Value: 1}, {Key: "walletAddress", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_bounty_wallet"),
			},
		},
		AdminWalletsCollection: {
			{
				Keys:    bson.D{{Key: "walletAddress", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_wallet"),
			},
		},
		CategoriesCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_category_name"),
			},
		},
		BountiesCollection: {
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_desc"),
			},
		},
	}
	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	default:
		return err
	}
}
