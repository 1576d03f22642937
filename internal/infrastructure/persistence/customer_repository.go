package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns customers visible to the context
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Customer, error) {
	var rows []models.CustomerModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	customers := make([]sales.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, *rows[i].ToDomain())
	}
	return customers, nil
}

// SaveBatch inserts customers in batched statements
func (r *GormCustomerRepository) SaveBatch(ctx context.Context, customers []*sales.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	rows := make([]models.CustomerModel, len(customers))
	for i, c := range customers {
		rows[i].FromDomain(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// Count counts customers visible to the context
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByPrimaryStore returns assigned-customer counts keyed by store
func (r *GormCustomerRepository) CountByPrimaryStore(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		PrimaryStoreID uuid.UUID
		N              int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select("primary_store_id, COUNT(*) AS n").
		Where("primary_store_id IS NOT NULL").
		Group("primary_store_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.PrimaryStoreID] = row.N
	}
	return counts, nil
}

// CountUnassigned counts customers without a primary store
func (r *GormCustomerRepository) CountUnassigned(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("primary_store_id IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ sales.CustomerRepository = (*GormCustomerRepository)(nil)
