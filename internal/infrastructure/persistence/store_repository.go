package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID. A store outside the context's
// visibility is reported as not found, not as a different error.
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenantID finds the store carrying a tenant ID
func (r *GormStoreRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*tenant.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "tenant_id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the stores visible to the context
func (r *GormStoreRepository) FindAll(ctx context.Context) ([]tenant.Store, error) {
	var rows []models.StoreModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	stores := make([]tenant.Store, 0, len(rows))
	for i := range rows {
		stores = append(stores, *rows[i].ToDomain())
	}
	return stores, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *tenant.Store) error {
	var model models.StoreModel
	model.FromDomain(store)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Count counts the stores visible to the context
func (r *GormStoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StoreModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStoreRepository implements StoreRepository
var _ tenant.StoreRepository = (*GormStoreRepository)(nil)
