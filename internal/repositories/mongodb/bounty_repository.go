package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure BountyRepository implements the interface
var _ repositories.BountyRepository = (*BountyRepository)(nil)

// BountyRepository handles MongoDB operations for Bounty
type BountyRepository struct {
	collection *mongo.Collection
}

// NewBountyRepository creates a new BountyRepository
func NewBountyRepository(db *mongo.Database) *BountyRepository {
	return &BountyRepository{
		collection: db.Collection(BountiesCollection),
	}
}

// Create inserts a new bounty with winners absent
func (r *BountyRepository) Create(ctx context.Context, bounty *models.Bounty) error {
	now := time.Now().UTC()
	bounty.ID = primitive.NewObjectID().Hex()
	bounty.Winners = nil
	bounty.FinalizedAt = nil
	bounty.FinalizedBy = ""
	bounty.CreatedAt = now
	bounty.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, bounty); err != nil {
		return fmt.Errorf("failed to insert bounty: %w", err)
	}
	return nil
}

// FindByID finds a bounty by ID
func (r *BountyRepository) FindByID(ctx context.Context, id string) (*models.Bounty, error) {
	var bounty models.Bounty
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bounty)
	if err != nil {
		return nil, translate(err)
	}
	return &bounty, nil
}

// FindAll returns all bounties sorted by creation time descending
func (r *BountyRepository) FindAll(ctx context.Context) ([]*models.Bounty, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var bounties []*models.Bounty
	if err := cursor.All(ctx, &bounties); err != nil {
		return nil, fmt.Errorf("failed to decode bounties: %w", err)
	}
	if bounties == nil {
		bounties = []*models.Bounty{}
	}
	return bounties, nil
}

// UpdateIfNotFinalized applies the present fields of patch while winners is absent
func (r *BountyRepository) UpdateIfNotFinalized(ctx context.Context, id string, patch models.BountyPatch) (*models.Bounty, error) {
	set := patchToSet(patch)
	set["updatedAt"] = time.Now().UTC()
	return r.conditionalUpdate(ctx, id, bson.M{"$set": set}, time.Time{})
}

// SetWinnersIfAbsent records winners in a single write filtered on winners
// being absent and the end date having passed
func (r *BountyRepository) SetWinnersIfAbsent(ctx context.Context, id string, winners models.Winners, finalizedBy string, endedBy time.Time) (*models.Bounty, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"winners":     winners,
		"finalizedAt": now,
		"finalizedBy": finalizedBy,
		"updatedAt":   now,
	}}
	return r.conditionalUpdate(ctx, id, update, endedBy)
}

func (r *BountyRepository) conditionalUpdate(ctx context.Context, id string, update bson.M, endedBy time.Time) (*models.Bounty, error) {
	// {winners: null} matches both a missing field and an explicit null
	filter := bson.M{"_id": id, "winners": nil}
	if !endedBy.IsZero() {
		filter["endDate"] = bson.M{"$lte": endedBy}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var bounty models.Bounty
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bounty)
	if err == nil {
		return &bounty, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err)
	}

	current, findErr := r.FindByID(ctx, id)
	if findErr != nil && !errors.Is(findErr, repositories.ErrNotFound) {
		return nil, findErr
	}
	return nil, repositories.ExplainMiss(current, endedBy)
}

// Delete removes a bounty and returns it
func (r *BountyRepository) Delete(ctx context.Context, id string) (*models.Bounty, error) {
	var bounty models.Bounty
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&bounty)
	if err != nil {
		return nil, translate(err)
	}
	return &bounty, nil
}

func patchToSet(patch models.BountyPatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Requirements != nil {
		set["requirements"] = *patch.Requirements
	}
	if patch.CategoryID != nil {
		set["categoryId"] = *patch.CategoryID
	}
	if patch.EndDate != nil {
		set["endDate"] = *patch.EndDate
	}
	if patch.Prizes != nil {
		set["prizes"] = *patch.Prizes
	}
	if patch.TokenSymbol != nil {
		set["tokenSymbol"] = *patch.TokenSymbol
	}
	if patch.TokenAddress != nil {
		set["tokenAddress"] = *patch.TokenAddress
	}
	if patch.IsCustomToken != nil {
		set["isCustomToken"] = *patch.IsCustomToken
	}
	return set
}
