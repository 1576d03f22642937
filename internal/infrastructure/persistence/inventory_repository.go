package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByStore returns the stock snapshot rows of one store
func (r *GormInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]sales.InventoryRecord, error) {
	var rows []models.InventoryModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInventoryRecords(rows), nil
}

// FindAll returns snapshot rows visible to the context
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.InventoryRecord, error) {
	var rows []models.InventoryModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.InventoryModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInventoryRecords(rows), nil
}

// FindByProducts returns visible snapshot rows for a set of products
func (r *GormInventoryRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) ([]sales.InventoryRecord, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.InventoryModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInventoryRecords(rows), nil
}

// SaveBatch inserts snapshot rows in batched statements
func (r *GormInventoryRepository) SaveBatch(ctx context.Context, records []*sales.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.InventoryModel, len(records))
	for i, rec := range records {
		rows[i].FromDomain(*rec)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// Count counts snapshot rows visible to the context
func (r *GormInventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toInventoryRecords(rows []models.InventoryModel) []sales.InventoryRecord {
	records := make([]sales.InventoryRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].ToDomain())
	}
	return records
}

// Ensure GormInventoryRepository implements InventoryRepository
var _ sales.InventoryRepository = (*GormInventoryRepository)(nil)
