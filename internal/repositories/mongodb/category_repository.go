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

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository handles MongoDB operations for Category
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection(CategoriesCollection),
	}
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID().Hex()
	category.CreatedAt = now
	category.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, category)
	return translate(err)
}

// FindByID finds a category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// FindAll returns all categories sorted by name
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var categories []*models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}
