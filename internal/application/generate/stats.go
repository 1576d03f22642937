package generate

import (
	"context"
	"fmt"

	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/tenant"
)

// StoreStats is the per-store slice of the dataset.
type StoreStats struct {
	Name      string
	TenantID  string
	Customers int64
	Orders    int64
}

// DatasetStats summarizes the current dataset.
type DatasetStats struct {
	Categories            int64
	Products              int64
	Stores                int64
	Customers             int64
	UnassignedCustomers   int64
	Orders                int64
	Inventory             int64
	ImageEmbeddings       int64
	DescriptionEmbeddings int64
	PerStore              []StoreStats
}

// StatsCollector reads dataset-wide counts under the sentinel context.
type StatsCollector struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	embeddings catalog.EmbeddingRepository
	stores     tenant.StoreRepository
	customers  sales.CustomerRepository
	orders     sales.OrderRepository
	inventory  sales.InventoryRepository
}

// NewStatsCollector wires a stats collector.
func NewStatsCollector(
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	embeddings catalog.EmbeddingRepository,
	stores tenant.StoreRepository,
	customers sales.CustomerRepository,
	orders sales.OrderRepository,
	inventory sales.InventoryRepository,
) *StatsCollector {
	return &StatsCollector{
		categories: categories,
		products:   products,
		embeddings: embeddings,
		stores:     stores,
		customers:  customers,
		orders:     orders,
		inventory:  inventory,
	}
}

// Collect gathers the counts.
func (c *StatsCollector) Collect(ctx context.Context) (*DatasetStats, error) {
	ctx = tenant.WithContext(ctx, tenant.Sentinel())

	stats := &DatasetStats{}

	cats, err := c.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	stats.Categories = int64(len(cats))

	if stats.Products, err = c.products.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}
	if stats.Stores, err = c.stores.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting stores: %w", err)
	}
	if stats.Customers, err = c.customers.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting customers: %w", err)
	}
	if stats.UnassignedCustomers, err = c.customers.CountUnassigned(ctx); err != nil {
		return nil, fmt.Errorf("counting unassigned customers: %w", err)
	}
	if stats.Orders, err = c.orders.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}
	if stats.Inventory, err = c.inventory.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting inventory: %w", err)
	}
	if stats.ImageEmbeddings, err = c.embeddings.Count(ctx, catalog.SpaceImage); err != nil {
		return nil, fmt.Errorf("counting image embeddings: %w", err)
	}
	if stats.DescriptionEmbeddings, err = c.embeddings.Count(ctx, catalog.SpaceDescription); err != nil {
		return nil, fmt.Errorf("counting description embeddings: %w", err)
	}

	stores, err := c.stores.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	customerCounts, err := c.customers.CountByPrimaryStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting customers per store: %w", err)
	}
	orderCounts, err := c.orders.CountByStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting orders per store: %w", err)
	}

	for _, store := range stores {
		stats.PerStore = append(stats.PerStore, StoreStats{
			Name:      store.Name,
			TenantID:  store.TenantID.String(),
			Customers: customerCounts[store.ID],
			Orders:    orderCounts[store.ID],
		})
	}
	return stats, nil
}
