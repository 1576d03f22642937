package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolationSetup seeds two stores with distinct tenant IDs plus a small
// shared catalog, all written under the sentinel context.
type isolationSetup struct {
	DB            *TestDB
	StoreRepo     *persistence.GormStoreRepository
	ProductRepo   *persistence.GormProductRepository
	CustomerRepo  *persistence.GormCustomerRepository
	OrderRepo     *persistence.GormOrderRepository
	InventoryRepo *persistence.GormInventoryRepository
	StoreA        *tenant.Store
	StoreB        *tenant.Store
	Product       *catalog.Product
}

func newIsolationSetup(t *testing.T) *isolationSetup {
	t.Helper()

	testDB := NewTestDB(t)
	ctx := sentinelCtx()

	categoryRepo := persistence.NewGormCategoryRepository(testDB.DB)
	productRepo := persistence.NewGormProductRepository(testDB.DB)
	storeRepo := persistence.NewGormStoreRepository(testDB.DB)

	storeA, err := tenant.NewStore("Store A", uuid.New(), false, 0.6, 1.0, 1.0)
	require.NoError(t, err)
	require.NoError(t, storeRepo.Save(ctx, storeA))

	storeB, err := tenant.NewStore("Store B", uuid.New(), true, 0.4, 1.0, 1.0)
	require.NoError(t, err)
	require.NoError(t, storeRepo.Save(ctx, storeB))

	seasonal := catalog.SeasonalMultipliers{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	category, err := catalog.NewCategory("Apparel", seasonal)
	require.NoError(t, err)
	require.NoError(t, categoryRepo.Save(ctx, category))

	productType, err := catalog.NewProductType(category.ID, "T-Shirts")
	require.NoError(t, err)
	require.NoError(t, categoryRepo.SaveProductType(ctx, productType))

	product, err := catalog.NewProduct("APP-001", "Crew Neck Tee", category.ID, productType.ID, decimal.NewFromFloat(8.50))
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	return &isolationSetup{
		DB:            testDB,
		StoreRepo:     storeRepo,
		ProductRepo:   productRepo,
		CustomerRepo:  persistence.NewGormCustomerRepository(testDB.DB),
		OrderRepo:     persistence.NewGormOrderRepository(testDB.DB),
		InventoryRepo: persistence.NewGormInventoryRepository(testDB.DB),
		StoreA:        storeA,
		StoreB:        storeB,
		Product:       product,
	}
}

func sentinelCtx() context.Context {
	return tenant.WithContext(context.Background(), tenant.Sentinel())
}

func tenantCtx(tenantID uuid.UUID) context.Context {
	return tenant.WithContext(context.Background(), tenant.NewContext(tenantID))
}

// placeOrder writes a customer order at the given store under the
// sentinel context.
func (s *isolationSetup) placeOrder(t *testing.T, customer *sales.Customer, store *tenant.Store) *sales.Order {
	t.Helper()

	order, err := sales.NewOrder(customer.ID, store.ID, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	item, err := sales.NewOrderItem(s.Product.ID, 2, decimal.NewFromFloat(12.69), 0)
	require.NoError(t, err)
	order.AddItem(*item)

	require.NoError(t, s.OrderRepo.SaveBatch(sentinelCtx(), []*sales.Order{order}))
	return order
}

func TestTenantIsolation_Orders(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newIsolationSetup(t)

	customer, err := sales.NewCustomer("Ada", "Nilsen", "ada@example.com", "555-0001", &setup.StoreA.ID)
	require.NoError(t, err)
	require.NoError(t, setup.CustomerRepo.SaveBatch(sentinelCtx(), []*sales.Customer{customer}))

	order := setup.placeOrder(t, customer, setup.StoreA)

	t.Run("owning_tenant_sees_the_order", func(t *testing.T) {
		found, err := setup.OrderRepo.FindByID(tenantCtx(setup.StoreA.TenantID), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		assert.Len(t, found.Items, 1)
	})

	t.Run("other_tenant_gets_not_found", func(t *testing.T) {
		found, err := setup.OrderRepo.FindByID(tenantCtx(setup.StoreB.TenantID), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, found)
	})

	t.Run("sentinel_sees_everything", func(t *testing.T) {
		count, err := setup.OrderRepo.Count(sentinelCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing_tenant_context_fails_closed", func(t *testing.T) {
		_, err := setup.OrderRepo.Count(context.Background())
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})
}

func TestTenantIsolation_Customers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newIsolationSetup(t)

	assigned, err := sales.NewCustomer("Ben", "Okafor", "ben@example.com", "555-0002", &setup.StoreA.ID)
	require.NoError(t, err)
	require.NoError(t, setup.CustomerRepo.SaveBatch(sentinelCtx(), []*sales.Customer{assigned}))

	t.Run("visible_through_primary_assignment", func(t *testing.T) {
		found, err := setup.CustomerRepo.FindByID(tenantCtx(setup.StoreA.TenantID), assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, assigned.ID, found.ID)
	})

	t.Run("invisible_to_the_other_tenant", func(t *testing.T) {
		_, err := setup.CustomerRepo.FindByID(tenantCtx(setup.StoreB.TenantID), assigned.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("becomes_visible_after_ordering_there", func(t *testing.T) {
		// A walk-in purchase at store B makes the customer visible to
		// B's tenant without changing the primary assignment.
		setup.placeOrder(t, assigned, setup.StoreB)

		found, err := setup.CustomerRepo.FindByID(tenantCtx(setup.StoreB.TenantID), assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, setup.StoreA.ID, *found.PrimaryStoreID)
	})
}

func TestTenantIsolation_StoresAndInventory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newIsolationSetup(t)

	records := []*sales.InventoryRecord{
		sales.NewInventoryRecord(setup.StoreA.ID, setup.Product.ID, 40),
		sales.NewInventoryRecord(setup.StoreB.ID, setup.Product.ID, 25),
	}
	require.NoError(t, setup.InventoryRepo.SaveBatch(sentinelCtx(), records))

	t.Run("tenant_sees_only_its_own_store", func(t *testing.T) {
		stores, err := setup.StoreRepo.FindAll(tenantCtx(setup.StoreA.TenantID))
		require.NoError(t, err)
		require.Len(t, stores, 1)
		assert.Equal(t, setup.StoreA.ID, stores[0].ID)
	})

	t.Run("inventory_filters_by_store_ownership", func(t *testing.T) {
		recs, err := setup.InventoryRepo.FindAll(tenantCtx(setup.StoreB.TenantID), shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, setup.StoreB.ID, recs[0].StoreID)
		assert.Equal(t, 25, recs[0].StockLevel)
	})

	t.Run("sentinel_sees_all_inventory", func(t *testing.T) {
		count, err := setup.InventoryRepo.Count(sentinelCtx())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestTenantIsolation_SharedCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newIsolationSetup(t)

	t.Run("catalog_is_visible_to_every_tenant", func(t *testing.T) {
		for _, tc := range []context.Context{
			tenantCtx(setup.StoreA.TenantID),
			tenantCtx(setup.StoreB.TenantID),
			sentinelCtx(),
		} {
			found, err := setup.ProductRepo.FindBySKU(tc, "APP-001")
			require.NoError(t, err)
			assert.Equal(t, setup.Product.ID, found.ID)
		}
	})

	t.Run("catalog_readable_without_tenant_context", func(t *testing.T) {
		// Shared tables are never filtered, so a bare context works.
		found, err := setup.ProductRepo.FindBySKU(context.Background(), "APP-001")
		require.NoError(t, err)
		assert.Equal(t, setup.Product.ID, found.ID)
	})
}
