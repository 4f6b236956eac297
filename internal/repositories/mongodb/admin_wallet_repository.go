package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure AdminWalletRepository implements repositories.AdminWalletRepository
var _ repositories.AdminWalletRepository = (*AdminWalletRepository)(nil)

// AdminWalletRepository stores the admin allowlist
type AdminWalletRepository struct {
	collection *mongo.Collection
}

// NewAdminWalletRepository creates a new repository for admin wallets
func NewAdminWalletRepository(db *mongo.Database) *AdminWalletRepository {
	return &AdminWalletRepository{
		collection: db.Collection(AdminWalletsCollection),
	}
}

// Add upserts the wallet so that adding an existing address is a no-op
func (r *AdminWalletRepository) Add(ctx context.Context, wallet *models.AdminWallet) error {
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now().UTC()
	}
	filter := bson.M{"walletAddress": wallet.WalletAddress}
	update := bson.M{
		"$set": bson.M{"label": wallet.Label},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"createdAt": wallet.CreatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return translate(err)
}

// Remove deletes a wallet from the allowlist
func (r *AdminWalletRepository) Remove(ctx context.Context, walletAddress string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"walletAddress": walletAddress})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Exists checks if a wallet is on the allowlist
func (r *AdminWalletRepository) Exists(ctx context.Context, walletAddress string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"walletAddress": walletAddress}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// FindAll returns every allowlisted wallet
func (r *AdminWalletRepository) FindAll(ctx context.Context) ([]*models.AdminWallet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var wallets []*models.AdminWallet
	if err := cursor.All(ctx, &wallets); err != nil {
		return nil, fmt.Errorf("failed to decode admin wallets: %w", err)
	}
	if wallets == nil {
		wallets = []*models.AdminWallet{}
	}
	return wallets, nil
}
