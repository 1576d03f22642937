package generate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory sink for generated data, shared by the fake
// repositories below.
type memStore struct {
	mu         sync.Mutex
	categories []*catalog.Category
	types      []*catalog.ProductType
	products   []*catalog.Product
	stores     []*tenant.Store
	customers  []*sales.Customer
	orders     []*sales.Order
	inventory  []*sales.InventoryRecord
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) FindByID(context.Context, uuid.UUID) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}
func (r *memCategoryRepo) FindByName(context.Context, string) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}
func (r *memCategoryRepo) FindAll(context.Context) ([]catalog.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]catalog.Category, len(r.s.categories))
	for i, c := range r.s.categories {
		out[i] = *c
	}
	return out, nil
}
func (r *memCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories = append(r.s.categories, c)
	return nil
}
func (r *memCategoryRepo) SaveProductType(_ context.Context, pt *catalog.ProductType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.types = append(r.s.types, pt)
	return nil
}
func (r *memCategoryRepo) FindProductTypes(context.Context, uuid.UUID) ([]catalog.ProductType, error) {
	return nil, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) FindByID(context.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}
func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (r *memProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}
func (r *memProductRepo) FindByCategory(context.Context, uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}
func (r *memProductRepo) FindByIDs(context.Context, []uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = append(r.s.products, p)
	return nil
}
func (r *memProductRepo) SaveBatch(_ context.Context, products []*catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = append(r.s.products, products...)
	return nil
}
func (r *memProductRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.products)), nil
}

type memStoreRepo struct{ s *memStore }

func (r *memStoreRepo) FindByID(context.Context, uuid.UUID) (*tenant.Store, error) {
	return nil, shared.ErrNotFound
}
func (r *memStoreRepo) FindByTenantID(context.Context, uuid.UUID) (*tenant.Store, error) {
	return nil, shared.ErrNotFound
}
func (r *memStoreRepo) FindAll(context.Context) ([]tenant.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]tenant.Store, len(r.s.stores))
	for i, st := range r.s.stores {
		out[i] = *st
	}
	return out, nil
}
func (r *memStoreRepo) Save(_ context.Context, st *tenant.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stores = append(r.s.stores, st)
	return nil
}
func (r *memStoreRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.stores)), nil
}

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) FindByID(context.Context, uuid.UUID) (*sales.Customer, error) {
	return nil, shared.ErrNotFound
}
func (r *memCustomerRepo) FindAll(context.Context, shared.Filter) ([]sales.Customer, error) {
	return nil, nil
}
func (r *memCustomerRepo) SaveBatch(_ context.Context, customers []*sales.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers = append(r.s.customers, customers...)
	return nil
}
func (r *memCustomerRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.customers)), nil
}
func (r *memCustomerRepo) CountByPrimaryStore(context.Context) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[uuid.UUID]int64)
	for _, c := range r.s.customers {
		if c.PrimaryStoreID != nil {
			counts[*c.PrimaryStoreID]++
		}
	}
	return counts, nil
}
func (r *memCustomerRepo) CountUnassigned(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.customers {
		if c.PrimaryStoreID == nil {
			n++
		}
	}
	return n, nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) FindByID(context.Context, uuid.UUID) (*sales.Order, error) {
	return nil, shared.ErrNotFound
}
func (r *memOrderRepo) FindAll(context.Context, shared.Filter) ([]sales.Order, error) {
	return nil, nil
}
func (r *memOrderRepo) FindByCustomer(context.Context, uuid.UUID) ([]sales.Order, error) {
	return nil, nil
}
func (r *memOrderRepo) SaveBatch(_ context.Context, orders []*sales.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders = append(r.s.orders, orders...)
	return nil
}
func (r *memOrderRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.orders)), nil
}
func (r *memOrderRepo) CountByStore(context.Context) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[uuid.UUID]int64)
	for _, o := range r.s.orders {
		counts[o.StoreID]++
	}
	return counts, nil
}
func (r *memOrderRepo) MonthlyVolumeByCategory(_ context.Context, categoryID uuid.UUID) (map[int]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	categoryOf := make(map[uuid.UUID]uuid.UUID, len(r.s.products))
	for _, p := range r.s.products {
		categoryOf[p.ID] = p.CategoryID
	}

	monthly := make(map[int]int64)
	for _, o := range r.s.orders {
		for _, item := range o.Items {
			if categoryOf[item.ProductID] == categoryID {
				monthly[int(o.OrderDate.Month())] += int64(item.Quantity)
			}
		}
	}
	return monthly, nil
}
func (r *memOrderRepo) AggregateMargin(context.Context) (sales.AggregateMargin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	costBySku := make(map[uuid.UUID]float64, len(r.s.products))
	for _, p := range r.s.products {
		costBySku[p.ID] = p.Cost.InexactFloat64()
	}

	var margin sales.AggregateMargin
	for _, o := range r.s.orders {
		for _, item := range o.Items {
			margin.Revenue += item.TotalAmount.InexactFloat64()
			margin.Cost += costBySku[item.ProductID] * float64(item.Quantity)
		}
	}
	if margin.Revenue > 0 {
		margin.RealizedRatio = (margin.Revenue - margin.Cost) / margin.Revenue
	}
	return margin, nil
}

type memInventoryRepo struct{ s *memStore }

func (r *memInventoryRepo) FindByStore(context.Context, uuid.UUID) ([]sales.InventoryRecord, error) {
	return nil, nil
}
func (r *memInventoryRepo) FindAll(context.Context, shared.Filter) ([]sales.InventoryRecord, error) {
	return nil, nil
}
func (r *memInventoryRepo) FindByProducts(context.Context, []uuid.UUID) ([]sales.InventoryRecord, error) {
	return nil, nil
}
func (r *memInventoryRepo) SaveBatch(_ context.Context, records []*sales.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inventory = append(r.s.inventory, records...)
	return nil
}
func (r *memInventoryRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.inventory)), nil
}

func newMemGenerator(s *memStore) *Generator {
	return NewGenerator(
		&memCategoryRepo{s: s},
		&memProductRepo{s: s},
		&memStoreRepo{s: s},
		&memCustomerRepo{s: s},
		&memOrderRepo{s: s},
		&memInventoryRepo{s: s},
		nil,
	)
}

func flatSeasonal() []float64 {
	return []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
}

func summerSeasonal() []float64 {
	return []float64{1, 1, 1, 1, 2, 2, 2, 2, 1, 1, 1, 0.5}
}

func testCatalogDoc(seasonal []float64) *CatalogDocument {
	return &CatalogDocument{
		Categories: []CategoryDoc{
			{
				Name:     "Apparel",
				Seasonal: seasonal,
				Types: []ProductTypeDoc{
					{
						Name: "Shirts",
						Products: []ProductDoc{
							{SKU: "APP-001", Name: "Linen Shirt", Cost: 20},
							{SKU: "APP-002", Name: "Denim Jacket", Cost: 45},
							{SKU: "APP-003", Name: "Wool Sweater", Cost: 30},
						},
					},
				},
			},
		},
	}
}

func testStoresDoc() *StoresDocument {
	return &StoresDocument{
		Stores: []StoreDoc{
			{
				Name:                     "Downtown",
				TenantID:                 "11111111-1111-1111-1111-111111111111",
				DistributionWeight:       0.7,
				OrderFrequencyMultiplier: 1.0,
				OrderValueMultiplier:     1.0,
			},
			{
				Name:                     "Webshop",
				TenantID:                 "22222222-2222-2222-2222-222222222222",
				IsOnline:                 true,
				DistributionWeight:       0.3,
				OrderFrequencyMultiplier: 1.0,
				OrderValueMultiplier:     1.0,
			},
		},
	}
}

func testConfig(customers int) Config {
	return Config{
		CustomerCount: customers,
		BatchSize:     250,
		Workers:       2,
		MaxRetries:    1,
		RetryBackoff:  time.Millisecond,
		FromYear:      2020,
		ToYear:        2026,
		Seed:          42,
	}
}

func TestGenerator_Run(t *testing.T) {
	t.Run("produces_full_dataset", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		summary, err := g.Run(context.Background(), testConfig(1000), testCatalogDoc(flatSeasonal()), testStoresDoc())
		require.NoError(t, err)
		require.Empty(t, summary.FailedBatches)

		assert.Equal(t, int64(1000), summary.Customers)
		assert.Len(t, s.customers, 1000)
		assert.Equal(t, 3, summary.Products)
		assert.Equal(t, 2, summary.Stores)
		assert.Positive(t, summary.Orders)
		// one snapshot per (store, product)
		assert.Equal(t, int64(6), summary.InventoryRecords)
	})

	t.Run("respects_unassigned_ratio", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(2000), testCatalogDoc(flatSeasonal()), testStoresDoc())
		require.NoError(t, err)

		var unassigned int
		for _, c := range s.customers {
			if c.PrimaryStoreID == nil {
				unassigned++
			}
		}
		assert.InDelta(t, unassignedCustomerRatio, float64(unassigned)/float64(len(s.customers)), 0.05)
	})

	t.Run("splits_customers_by_distribution_weight", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(2000), testCatalogDoc(flatSeasonal()), testStoresDoc())
		require.NoError(t, err)

		var downtown *tenant.Store
		for _, st := range s.stores {
			if st.Name == "Downtown" {
				downtown = st
			}
		}
		require.NotNil(t, downtown)

		var assigned, atDowntown int
		for _, c := range s.customers {
			if c.PrimaryStoreID == nil {
				continue
			}
			assigned++
			if *c.PrimaryStoreID == downtown.ID {
				atDowntown++
			}
		}
		require.Positive(t, assigned)
		assert.InDelta(t, 0.7, float64(atDowntown)/float64(assigned), 0.05)
	})

	t.Run("orders_follow_seasonal_multipliers", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(2000), testCatalogDoc(summerSeasonal()), testStoresDoc())
		require.NoError(t, err)
		require.NotEmpty(t, s.orders)

		monthly := make(map[time.Month]int)
		for _, o := range s.orders {
			monthly[o.OrderDate.Month()]++
		}

		summer := float64(monthly[time.May]+monthly[time.June]+monthly[time.July]+monthly[time.August]) / 4
		december := float64(monthly[time.December])
		require.Positive(t, december)
		assert.InDelta(t, 4.0, summer/december, 1.0)
	})

	t.Run("order_shape_stays_within_bounds", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(500), testCatalogDoc(flatSeasonal()), testStoresDoc())
		require.NoError(t, err)

		for _, o := range s.orders {
			require.NotEmpty(t, o.Items)
			assert.LessOrEqual(t, len(o.Items), 5)
			assert.GreaterOrEqual(t, o.OrderDate.Year(), 2020)
			assert.LessOrEqual(t, o.OrderDate.Year(), 2026)
			for _, item := range o.Items {
				assert.GreaterOrEqual(t, item.Quantity, 1)
				assert.LessOrEqual(t, item.Quantity, 5)
				assert.True(t, item.TotalAmount.IsPositive() || item.DiscountPercent == 0)
			}
		}
	})

	t.Run("same_seed_produces_same_aggregates", func(t *testing.T) {
		run := func() (*memStore, *Summary) {
			s := &memStore{}
			summary, err := newMemGenerator(s).Run(context.Background(), testConfig(500), testCatalogDoc(flatSeasonal()), testStoresDoc())
			require.NoError(t, err)
			return s, summary
		}

		first, firstSummary := run()
		second, secondSummary := run()

		assert.Equal(t, firstSummary.Orders, secondSummary.Orders)
		assert.Equal(t, firstSummary.OrderItems, secondSummary.OrderItems)

		firstMargin, err := (&memOrderRepo{s: first}).AggregateMargin(context.Background())
		require.NoError(t, err)
		secondMargin, err := (&memOrderRepo{s: second}).AggregateMargin(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, firstMargin.Revenue, secondMargin.Revenue, 0.01)
	})
}

func TestVerifier_Run(t *testing.T) {
	t.Run("passes_on_generated_dataset", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(2000), testCatalogDoc(flatSeasonal()), testStoresDoc())
		require.NoError(t, err)

		v := NewVerifier(
			&memStoreRepo{s: s},
			&memCategoryRepo{s: s},
			&memProductRepo{s: s},
			&memCustomerRepo{s: s},
			&memOrderRepo{s: s},
			&memInventoryRepo{s: s},
			nil,
		)
		report, err := v.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(2000), report.Customers)
		assert.Truef(t, report.OK(), "failed checks: %+v", report.Failed())
	})

	t.Run("confirms_seasonal_peaks", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		_, err := g.Run(context.Background(), testConfig(2000), testCatalogDoc(summerSeasonal()), testStoresDoc())
		require.NoError(t, err)

		v := NewVerifier(
			&memStoreRepo{s: s},
			&memCategoryRepo{s: s},
			&memProductRepo{s: s},
			&memCustomerRepo{s: s},
			&memOrderRepo{s: s},
			&memInventoryRepo{s: s},
			nil,
		)
		report, err := v.Run(context.Background())
		require.NoError(t, err)

		var sawPeak, sawLow bool
		for _, c := range report.Checks {
			switch c.Name {
			case "category_peak_month":
				sawPeak = true
				assert.True(t, c.OK, "peak month check failed: %+v", c)
			case "category_low_month":
				sawLow = true
				assert.True(t, c.OK, "low month check failed: %+v", c)
			}
		}
		assert.True(t, sawPeak)
		assert.True(t, sawLow)
	})
}

func TestStatsCollector_Collect(t *testing.T) {
	s := &memStore{}
	g := newMemGenerator(s)

	_, err := g.Run(context.Background(), testConfig(500), testCatalogDoc(flatSeasonal()), testStoresDoc())
	require.NoError(t, err)

	c := NewStatsCollector(
		&memCategoryRepo{s: s},
		&memProductRepo{s: s},
		&memEmbeddingRepo{},
		&memStoreRepo{s: s},
		&memCustomerRepo{s: s},
		&memOrderRepo{s: s},
		&memInventoryRepo{s: s},
	)
	stats, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Categories)
	assert.Equal(t, int64(500), stats.Customers)
	assert.Len(t, stats.PerStore, 2)

	var storeOrders int64
	for _, st := range stats.PerStore {
		storeOrders += st.Orders
	}
	assert.Equal(t, stats.Orders, storeOrders)
}

type memEmbeddingRepo struct {
	mu     sync.Mutex
	spaces map[catalog.EmbeddingSpace][]catalog.Embedding
}

func (r *memEmbeddingRepo) Save(_ context.Context, space catalog.EmbeddingSpace, emb catalog.Embedding) error {
	return r.SaveBatch(context.Background(), space, []catalog.Embedding{emb})
}
func (r *memEmbeddingRepo) SaveBatch(_ context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spaces == nil {
		r.spaces = make(map[catalog.EmbeddingSpace][]catalog.Embedding)
	}
	r.spaces[space] = append(r.spaces[space], embs...)
	return nil
}
func (r *memEmbeddingRepo) FindAll(_ context.Context, space catalog.EmbeddingSpace) ([]catalog.Embedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.Embedding(nil), r.spaces[space]...), nil
}
func (r *memEmbeddingRepo) DeleteAll(_ context.Context, space catalog.EmbeddingSpace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spaces, space)
	return nil
}
func (r *memEmbeddingRepo) Count(_ context.Context, space catalog.EmbeddingSpace) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.spaces[space])), nil
}

func TestEmbeddingLoader_Run(t *testing.T) {
	t.Run("replaces_vectors_for_known_skus", func(t *testing.T) {
		s := &memStore{}
		g := newMemGenerator(s)

		doc := testCatalogDoc(flatSeasonal())
		doc.Categories[0].Types[0].Products[0].ImageEmbedding = make([]float32, catalog.ImageEmbeddingDim)
		doc.Categories[0].Types[0].Products[0].ImageEmbedding[0] = 1
		doc.Categories[0].Types[0].Products[1].DescriptionEmbedding = make([]float32, catalog.DescriptionEmbeddingDim)
		doc.Categories[0].Types[0].Products[1].DescriptionEmbedding[0] = 1

		_, err := g.Run(context.Background(), testConfig(10), doc, testStoresDoc())
		require.NoError(t, err)

		embRepo := &memEmbeddingRepo{}
		loader := NewEmbeddingLoader(&memProductRepo{s: s}, embRepo, nil, nil)
		summary, err := loader.Run(context.Background(), doc)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.ImageVectors)
		assert.Equal(t, 1, summary.DescriptionVectors)
		assert.Equal(t, 1, summary.SkippedProducts)

		n, err := embRepo.Count(context.Background(), catalog.SpaceImage)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("fails_on_unknown_sku", func(t *testing.T) {
		doc := testCatalogDoc(flatSeasonal())
		doc.Categories[0].Types[0].Products[0].ImageEmbedding = make([]float32, catalog.ImageEmbeddingDim)

		loader := NewEmbeddingLoader(&memProductRepo{s: &memStore{}}, &memEmbeddingRepo{}, nil, nil)
		_, err := loader.Run(context.Background(), doc)
		assert.Error(t, err)
	})
}

func TestGenerator_SampleDate(t *testing.T) {
	singleMonth := func(month time.Month) *catalog.Category {
		var seasonal catalog.SeasonalMultipliers
		seasonal[int(month)-1] = 1
		return &catalog.Category{Seasonal: seasonal}
	}
	singleYear := func(year int) *plan {
		return &plan{years: []int{year}, yearWeights: []float64{1}}
	}

	t.Run("reaches_the_end_of_long_months", func(t *testing.T) {
		g := &Generator{}
		s := newSampler(7)
		pl := singleYear(2023)
		cat := singleMonth(time.January)

		seen := make(map[int]bool)
		for i := 0; i < 5000; i++ {
			d := g.sampleDate(s, pl, cat)
			require.Equal(t, time.January, d.Month())
			seen[d.Day()] = true
		}
		for day := 1; day <= 31; day++ {
			assert.True(t, seen[day], "day %d never drawn", day)
		}
	})

	t.Run("stays_inside_february", func(t *testing.T) {
		g := &Generator{}
		s := newSampler(7)
		pl := singleYear(2023)
		cat := singleMonth(time.February)

		for i := 0; i < 5000; i++ {
			d := g.sampleDate(s, pl, cat)
			require.Equal(t, time.February, d.Month())
			require.LessOrEqual(t, d.Day(), 28)
		}
	})

	t.Run("uses_the_leap_day", func(t *testing.T) {
		g := &Generator{}
		s := newSampler(7)
		pl := singleYear(2024)
		cat := singleMonth(time.February)

		sawLeapDay := false
		for i := 0; i < 5000; i++ {
			d := g.sampleDate(s, pl, cat)
			require.LessOrEqual(t, d.Day(), 29)
			if d.Day() == 29 {
				sawLeapDay = true
			}
		}
		assert.True(t, sawLeapDay)
	})
}
