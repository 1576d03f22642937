package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	order := model.ToDomain()

	var itemRows []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("created_at ASC").
		Find(&itemRows).Error; err != nil {
		return nil, err
	}
	for i := range itemRows {
		order.Items = append(order.Items, itemRows[i].ToDomain())
	}
	return order, nil
}

// FindAll returns orders visible to the context, without items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	var rows []models.OrderModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]sales.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

// FindByCustomer returns a customer's orders visible to the context
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]sales.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]sales.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

// SaveBatch inserts orders and their items in one transaction
func (r *GormOrderRepository) SaveBatch(ctx context.Context, orders []*sales.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderRows := make([]models.OrderModel, len(orders))
	var itemRows []models.OrderItemModel
	for i, o := range orders {
		orderRows[i].FromDomain(o)
		for _, item := range o.Items {
			var row models.OrderItemModel
			row.FromDomain(item)
			itemRows = append(itemRows, row)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(orderRows, 500).Error; err != nil {
			return err
		}
		if len(itemRows) == 0 {
			return nil
		}
		return tx.CreateInBatches(itemRows, 500).Error
	})
}

// Count counts orders visible to the context
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStore returns order counts keyed by store
func (r *GormOrderRepository) CountByStore(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		StoreID uuid.UUID
		N       int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("store_id, COUNT(*) AS n").
		Group("store_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.StoreID] = row.N
	}
	return counts, nil
}

// MonthlyVolumeByCategory returns per-month unit volume for one
// category, keyed by month 1..12. Month extraction happens in Go so
// the query stays portable across the drivers used in tests.
func (r *GormOrderRepository) MonthlyVolumeByCategory(ctx context.Context, categoryID uuid.UUID) (map[int]int64, error) {
	var rows []struct {
		OrderDate time.Time
		Quantity  int64
	}
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("orders.order_date AS order_date, order_items.quantity AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.category_id = ?", categoryID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	volumes := make(map[int]int64, 12)
	for _, row := range rows {
		volumes[int(row.OrderDate.Month())] += row.Quantity
	}
	return volumes, nil
}

// AggregateMargin totals realized revenue against product cost across
// the order items visible to the context
func (r *GormOrderRepository) AggregateMargin(ctx context.Context) (sales.AggregateMargin, error) {
	var row struct {
		Revenue float64
		Cost    float64
	}
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("COALESCE(SUM(order_items.total_amount), 0) AS revenue, COALESCE(SUM(products.cost * order_items.quantity), 0) AS cost").
		Joins("JOIN products ON products.id = order_items.product_id").
		Find(&row).Error; err != nil {
		return sales.AggregateMargin{}, err
	}

	margin := sales.AggregateMargin{Revenue: row.Revenue, Cost: row.Cost}
	if row.Revenue > 0 {
		margin.RealizedRatio = (row.Revenue - row.Cost) / row.Revenue
	}
	return margin, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ sales.OrderRepository = (*GormOrderRepository)(nil)
