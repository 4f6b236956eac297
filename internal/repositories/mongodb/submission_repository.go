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

var _ repositories.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository handles MongoDB operations for Submission.
// Uniqueness of (bountyId, walletAddress) relies on the index created by EnsureIndexes.
type SubmissionRepository struct {
	collection *mongo.Collection
	newID      func() string
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{
		collection: db.Collection(SubmissionsCollection),
		newID:      func() string { return primitive.NewObjectID().Hex() },
	}
}

// FindByID finds a submission by ID
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission); err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

// FindByWalletAndBounty finds the submission of a wallet for a bounty
func (r *SubmissionRepository) FindByWalletAndBounty(ctx context.Context, bountyID, walletAddress string) (*models.Submission, error) {
	var submission models.Submission
	filter := bson.M{"bountyId": bountyID, "walletAddress": walletAddress}
	if err := r.collection.FindOne(ctx, filter).Decode(&submission); err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

// FindByBountyID lists the submissions of a bounty, oldest first
func (r *SubmissionRepository) FindByBountyID(ctx context.Context, bountyID string) ([]*models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"bountyId": bountyID}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var submissions []*models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	if submissions == nil {
		submissions = []*models.Submission{}
	}
	return submissions, nil
}

// Upsert inserts the submission or updates the existing one for the same
// (bountyId, walletAddress) in a single FindOneAndUpdate.
func (r *SubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (bool, error) {
	now := time.Now().UTC()
	newID := r.newID()
	filter := bson.M{"bountyId": submission.BountyID, "walletAddress": submission.WalletAddress}
	update := bson.M{
		"$set": bson.M{
			"twitterHandle": submission.TwitterHandle,
			"tweetLink":     submission.TweetLink,
			"extraInfo":     submission.ExtraInfo,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"_id":       newID,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Submission
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced on the unique index; the loser now finds the winner's row.
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return false, translate(err)
	}
	*submission = stored
	return stored.ID == newID, nil
}

// Update applies the present fields of patch to a submission
func (r *SubmissionRepository) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.TwitterHandle != nil {
		set["twitterHandle"] = *patch.TwitterHandle
	}
	if patch.TweetLink != nil {
		set["tweetLink"] = *patch.TweetLink
	}
	if patch.ExtraInfo != nil {
		set["extraInfo"] = *patch.ExtraInfo
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var submission models.Submission
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&submission)
	if err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

// DeleteByBountyID removes all submissions of a bounty
func (r *SubmissionRepository) DeleteByBountyID(ctx context.Context, bountyID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"bountyId": bountyID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}
