package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"gorm.io/gorm"
)

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository handles PostgreSQL operations for Category
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now
	row := categoryRow{ID: category.ID, Name: category.Name, CreatedAt: now, UpdatedAt: now}
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

// FindByID finds a category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var row categoryRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &models.Category{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}, nil
}

// FindAll returns all categories sorted by name
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	categories := make([]*models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &models.Category{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt})
	}
	return categories, nil
}
