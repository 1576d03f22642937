package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByName finds a category by its unique name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns every category ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]catalog.Category, 0, len(rows))
	for i := range rows {
		category, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	var model models.CategoryModel
	if err := model.FromDomain(category); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveProductType creates or updates a product type
func (r *GormCategoryRepository) SaveProductType(ctx context.Context, pt *catalog.ProductType) error {
	var model models.ProductTypeModel
	model.FromDomain(pt)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindProductTypes returns the product types of a category
func (r *GormCategoryRepository) FindProductTypes(ctx context.Context, categoryID uuid.UUID) ([]catalog.ProductType, error) {
	var rows []models.ProductTypeModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	types := make([]catalog.ProductType, 0, len(rows))
	for i := range rows {
		types = append(types, *rows[i].ToDomain())
	}
	return types, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
