package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"github.com/retailsim/backend/internal/infrastructure/persistence/tenantscope"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type salesFixture struct {
	db        *gorm.DB
	stores    *GormStoreRepository
	customers *GormCustomerRepository
	orders    *GormOrderRepository
	inventory *GormInventoryRepository
	products  *GormProductRepository

	storeA *tenant.Store
	storeB *tenant.Store
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.StoreModel{}, &models.CustomerModel{}, &models.OrderModel{},
		&models.OrderItemModel{}, &models.InventoryModel{}, &models.ProductModel{},
		&models.CategoryModel{}, &models.ProductTypeModel{},
	))
	require.NoError(t, tenantscope.Register(db))

	f := &salesFixture{
		db:        db,
		stores:    NewGormStoreRepository(db),
		customers: NewGormCustomerRepository(db),
		orders:    NewGormOrderRepository(db),
		inventory: NewGormInventoryRepository(db),
		products:  NewGormProductRepository(db),
	}

	f.storeA, err = tenant.NewStore("Seattle Flagship", uuid.New(), false, 0.7, 1.0, 1.0)
	require.NoError(t, err)
	f.storeB, err = tenant.NewStore("Online", uuid.New(), true, 0.3, 1.2, 1.1)
	require.NoError(t, err)

	seed := seedCtx()
	require.NoError(t, f.stores.Save(seed, f.storeA))
	require.NoError(t, f.stores.Save(seed, f.storeB))
	return f
}

func seedCtx() context.Context {
	return tenant.WithContext(context.Background(), tenant.Sentinel())
}

func storeCtx(s *tenant.Store) context.Context {
	return tenant.WithContext(context.Background(), tenant.NewContext(s.TenantID))
}

func (f *salesFixture) seedProduct(t *testing.T, cost float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SKU-"+uuid.NewString()[:8], "Fixture Product", uuid.New(), uuid.New(), decimal.NewFromFloat(cost))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(seedCtx(), product))
	return product
}

func (f *salesFixture) seedOrder(t *testing.T, store *tenant.Store, customerID uuid.UUID, product *catalog.Product, qty int, when time.Time) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(customerID, store.ID, when)
	require.NoError(t, err)
	item, err := sales.NewOrderItem(product.ID, qty, product.RetailPrice(), 0)
	require.NoError(t, err)
	order.AddItem(*item)
	require.NoError(t, f.orders.SaveBatch(seedCtx(), []*sales.Order{order}))
	return order
}

func TestGormStoreRepository_RoundTrip(t *testing.T) {
	f := newSalesFixture(t)

	t.Run("find_by_tenant_id", func(t *testing.T) {
		found, err := f.stores.FindByTenantID(storeCtx(f.storeA), f.storeA.TenantID)
		require.NoError(t, err)
		assert.Equal(t, f.storeA.ID, found.ID)
		assert.InDelta(t, 0.7, found.DistributionWeight, 1e-9)
	})

	t.Run("tenant_count_is_one", func(t *testing.T) {
		count, err := f.stores.Count(storeCtx(f.storeA))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("sentinel_count_is_all", func(t *testing.T) {
		count, err := f.stores.Count(seedCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormCustomerRepository_Counts(t *testing.T) {
	f := newSalesFixture(t)

	assigned, err := sales.NewCustomer("Maya", "Chen", "maya@example.com", "", &f.storeA.ID)
	require.NoError(t, err)
	unassigned, err := sales.NewCustomer("Jo", "Park", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.customers.SaveBatch(seedCtx(), []*sales.Customer{assigned, unassigned}))

	t.Run("count_by_primary_store", func(t *testing.T) {
		counts, err := f.customers.CountByPrimaryStore(seedCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[f.storeA.ID])
	})

	t.Run("count_unassigned", func(t *testing.T) {
		count, err := f.customers.CountUnassigned(seedCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormOrderRepository_SaveBatchAndAggregates(t *testing.T) {
	f := newSalesFixture(t)

	product := f.seedProduct(t, 10.00)
	customer, err := sales.NewCustomer("Sam", "Reed", "", "", &f.storeA.ID)
	require.NoError(t, err)
	require.NoError(t, f.customers.SaveBatch(seedCtx(), []*sales.Customer{customer}))

	f.seedOrder(t, f.storeA, customer.ID, product, 2, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	f.seedOrder(t, f.storeB, customer.ID, product, 1, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))

	t.Run("find_by_id_loads_items", func(t *testing.T) {
		all, err := f.orders.FindAll(seedCtx(), shared.DefaultFilter())
		require.NoError(t, err)
		require.NotEmpty(t, all)

		order, err := f.orders.FindByID(seedCtx(), all[0].ID)
		require.NoError(t, err)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.StoreID, order.Items[0].StoreID)
	})

	t.Run("count_by_store", func(t *testing.T) {
		counts, err := f.orders.CountByStore(seedCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[f.storeA.ID])
		assert.Equal(t, int64(1), counts[f.storeB.ID])
	})

	t.Run("tenant_sees_only_own_orders", func(t *testing.T) {
		count, err := f.orders.Count(storeCtx(f.storeA))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("aggregate_margin_matches_pricing_model", func(t *testing.T) {
		margin, err := f.orders.AggregateMargin(seedCtx())
		require.NoError(t, err)
		assert.Greater(t, margin.Revenue, margin.Cost)
		assert.InDelta(t, catalog.GrossMargin, margin.RealizedRatio, 0.005)
	})

	t.Run("monthly_volume_by_category", func(t *testing.T) {
		volumes, err := f.orders.MonthlyVolumeByCategory(seedCtx(), product.CategoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), volumes[3])
		assert.Equal(t, int64(1), volumes[6])
	})
}

func TestGormInventoryRepository_RoundTrip(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, 5.50)

	rec := sales.NewInventoryRecord(f.storeA.ID, product.ID, 12)
	require.NoError(t, f.inventory.SaveBatch(seedCtx(), []*sales.InventoryRecord{rec}))

	t.Run("find_by_store", func(t *testing.T) {
		records, err := f.inventory.FindByStore(storeCtx(f.storeA), f.storeA.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 12, records[0].StockLevel)
	})

	t.Run("hidden_from_other_tenant", func(t *testing.T) {
		records, err := f.inventory.FindByStore(storeCtx(f.storeB), f.storeA.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
