package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
)

// CustomerRepository provides tenant-filtered access to customers. A
// customer is visible when its primary store matches the context, or
// when it has at least one order at a matching store.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	SaveBatch(ctx context.Context, customers []*Customer) error
	Count(ctx context.Context) (int64, error)
	CountByPrimaryStore(ctx context.Context) (map[uuid.UUID]int64, error)
	CountUnassigned(ctx context.Context) (int64, error)
}

// OrderRepository provides tenant-filtered access to orders and items.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
	SaveBatch(ctx context.Context, orders []*Order) error
	Count(ctx context.Context) (int64, error)
	CountByStore(ctx context.Context) (map[uuid.UUID]int64, error)
	MonthlyVolumeByCategory(ctx context.Context, categoryID uuid.UUID) (map[int]int64, error)
	AggregateMargin(ctx context.Context) (AggregateMargin, error)
}

// InventoryRepository provides tenant-filtered access to stock
// snapshots.
type InventoryRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]InventoryRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRecord, error)
	FindByProducts(ctx context.Context, productIDs []uuid.UUID) ([]InventoryRecord, error)
	SaveBatch(ctx context.Context, records []*InventoryRecord) error
	Count(ctx context.Context) (int64, error)
}

// AggregateMargin summarizes realized revenue against product cost
// across all order items, for margin verification.
type AggregateMargin struct {
	Revenue       float64
	Cost          float64
	RealizedRatio float64
}
