package generate

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config are the knobs of one generation run.
type Config struct {
	CustomerCount int
	BatchSize     int
	Workers       int
	MaxRetries    int
	RetryBackoff  time.Duration
	FromYear      int
	ToYear        int
	Seed          int64
}

// Summary reports what a run produced. FailedBatches is non-empty when
// some batches could not be committed; their customers and orders are
// absent from the dataset while every other batch remains intact.
type Summary struct {
	Categories       int
	Products         int
	Stores           int
	Customers        int64
	Orders           int64
	OrderItems       int64
	InventoryRecords int64
	FailedBatches    []BatchResult
	Duration         time.Duration
}

// Generator produces the synthetic dataset: reference catalog, stores,
// customers, orders, and inventory snapshots. All writes go through the
// repositories under the sentinel tenant context.
type Generator struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	stores     tenant.StoreRepository
	customers  sales.CustomerRepository
	orders     sales.OrderRepository
	inventory  sales.InventoryRepository
	log        *zap.Logger
}

// NewGenerator wires a generator over the given repositories.
func NewGenerator(
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	stores tenant.StoreRepository,
	customers sales.CustomerRepository,
	orders sales.OrderRepository,
	inventory sales.InventoryRepository,
	log *zap.Logger,
) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		categories: categories,
		products:   products,
		stores:     stores,
		customers:  customers,
		orders:     orders,
		inventory:  inventory,
		log:        log,
	}
}

// plan is the immutable, fully seeded state every batch draws from.
type plan struct {
	stores       []*tenant.Store
	storeWeights []float64
	categories   []*catalog.Category
	byCategory   map[uuid.UUID][]*catalog.Product
	allProducts  []*catalog.Product
	years        []int
	yearWeights  []float64
}

// Run executes a full generation pass. Documents must already be
// validated; any error during seeding is fatal, while order and
// customer batches fail independently.
func (g *Generator) Run(ctx context.Context, cfg Config, catalogDoc *CatalogDocument, storesDoc *StoresDocument) (*Summary, error) {
	start := time.Now()
	ctx = tenant.WithContext(ctx, tenant.Sentinel())

	pl, summary, err := g.seed(ctx, cfg, catalogDoc, storesDoc)
	if err != nil {
		return nil, err
	}

	var customerCount, orderCount, itemCount atomic.Int64

	pool := NewBatchPool(cfg.Workers, cfg.MaxRetries, cfg.RetryBackoff, g.log)
	pool.Start(ctx)

	batches := (cfg.CustomerCount + cfg.BatchSize - 1) / cfg.BatchSize
	for i := 0; i < batches; i++ {
		size := cfg.BatchSize
		if rest := cfg.CustomerCount - i*cfg.BatchSize; rest < size {
			size = rest
		}

		batch := i
		seed := cfg.Seed + int64(batch) + 1
		job := BatchJob{
			ID:   batch,
			Kind: "customers",
			Seed: seed,
			Run: func(jobCtx context.Context) error {
				orders, items, err := g.generateBatch(jobCtx, cfg, pl, batch, size, seed)
				if err != nil {
					return err
				}
				customerCount.Add(int64(size))
				orderCount.Add(orders)
				itemCount.Add(items)
				return nil
			},
		}
		if !pool.Submit(ctx, job) {
			break
		}
	}

	summary.FailedBatches = pool.Wait()
	summary.Customers = customerCount.Load()
	summary.Orders = orderCount.Load()
	summary.OrderItems = itemCount.Load()

	invRecords, err := g.generateInventory(ctx, cfg, pl)
	if err != nil {
		return nil, err
	}
	summary.InventoryRecords = invRecords

	summary.Duration = time.Since(start)
	g.log.Info("generation finished",
		zap.Int64("customers", summary.Customers),
		zap.Int64("orders", summary.Orders),
		zap.Int64("order_items", summary.OrderItems),
		zap.Int64("inventory_records", summary.InventoryRecords),
		zap.Int("failed_batches", len(summary.FailedBatches)),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// seed writes the reference data and returns the generation plan.
func (g *Generator) seed(ctx context.Context, cfg Config, catalogDoc *CatalogDocument, storesDoc *StoresDocument) (*plan, *Summary, error) {
	categories, types, products, err := catalogDoc.BuildCatalog()
	if err != nil {
		return nil, nil, err
	}
	stores, growth, err := storesDoc.BuildStores()
	if err != nil {
		return nil, nil, err
	}

	for _, c := range categories {
		if err := g.categories.Save(ctx, c); err != nil {
			return nil, nil, fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}
	for _, pt := range types {
		if err := g.categories.SaveProductType(ctx, pt); err != nil {
			return nil, nil, fmt.Errorf("seeding product type %q: %w", pt.Name, err)
		}
	}
	if err := g.products.SaveBatch(ctx, products); err != nil {
		return nil, nil, fmt.Errorf("seeding products: %w", err)
	}
	for _, s := range stores {
		if err := g.stores.Save(ctx, s); err != nil {
			return nil, nil, fmt.Errorf("seeding store %q: %w", s.Name, err)
		}
	}

	pl := &plan{
		stores:     stores,
		categories: categories,
		byCategory: make(map[uuid.UUID][]*catalog.Product, len(categories)),
	}
	for _, p := range products {
		pl.byCategory[p.CategoryID] = append(pl.byCategory[p.CategoryID], p)
		pl.allProducts = append(pl.allProducts, p)
	}
	for _, s := range stores {
		pl.storeWeights = append(pl.storeWeights, s.DistributionWeight)
	}
	for _, year := range growth.Years() {
		if year < cfg.FromYear || year > cfg.ToYear {
			continue
		}
		pl.years = append(pl.years, year)
		pl.yearWeights = append(pl.yearWeights, growth.ForYear(year))
	}
	if len(pl.years) == 0 {
		for year := cfg.FromYear; year <= cfg.ToYear; year++ {
			pl.years = append(pl.years, year)
			pl.yearWeights = append(pl.yearWeights, growth.ForYear(year))
		}
	}

	g.log.Info("reference data seeded",
		zap.Int("categories", len(categories)),
		zap.Int("product_types", len(types)),
		zap.Int("products", len(products)),
		zap.Int("stores", len(stores)))

	summary := &Summary{
		Categories: len(categories),
		Products:   len(products),
		Stores:     len(stores),
	}
	return pl, summary, nil
}

// generateBatch creates one batch of customers with their orders and
// commits both. The sampler is seeded per batch so the dataset does
// not depend on which worker ran which batch.
func (g *Generator) generateBatch(ctx context.Context, cfg Config, pl *plan, batch, size int, seed int64) (int64, int64, error) {
	s := newSampler(seed)

	customers := make([]*sales.Customer, 0, size)
	var orders []*sales.Order
	var itemTotal int64

	for i := 0; i < size; i++ {
		seq := batch*cfg.BatchSize + i
		customer, err := g.makeCustomer(s, pl, seq)
		if err != nil {
			return 0, 0, err
		}
		customers = append(customers, customer)

		customerOrders, items, err := g.makeOrders(s, pl, customer)
		if err != nil {
			return 0, 0, err
		}
		orders = append(orders, customerOrders...)
		itemTotal += items
	}

	if err := g.customers.SaveBatch(ctx, customers); err != nil {
		return 0, 0, fmt.Errorf("batch %d customers: %w", batch, err)
	}
	if err := g.orders.SaveBatch(ctx, orders); err != nil {
		return 0, 0, fmt.Errorf("batch %d orders: %w", batch, err)
	}
	return int64(len(orders)), itemTotal, nil
}

func (g *Generator) makeCustomer(s *sampler, pl *plan, seq int) (*sales.Customer, error) {
	first := firstNames[s.intn(len(firstNames))]
	last := lastNames[s.intn(len(lastNames))]
	email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), seq)
	phone := fmt.Sprintf("555-%04d", s.intn(10000))

	var primary *uuid.UUID
	if s.chance(1 - unassignedCustomerRatio) {
		store := pl.stores[s.weightedIndex(pl.storeWeights)]
		id := store.ID
		primary = &id
	}
	return sales.NewCustomer(first, last, email, phone, primary)
}

func (g *Generator) makeOrders(s *sampler, pl *plan, customer *sales.Customer) ([]*sales.Order, int64, error) {
	var primaryStore *tenant.Store
	freq := 1.0
	if customer.PrimaryStoreID != nil {
		for _, st := range pl.stores {
			if st.ID == *customer.PrimaryStoreID {
				primaryStore = st
				break
			}
		}
		if primaryStore != nil {
			freq = primaryStore.OrderFrequencyMultiplier
		}
	}

	count := s.ordersForCustomer(freq)
	orders := make([]*sales.Order, 0, count)
	var itemTotal int64

	for i := 0; i < count; i++ {
		store := primaryStore
		if store == nil || !s.chance(primaryStoreOrderRatio) {
			store = pl.stores[s.weightedIndex(pl.storeWeights)]
		}

		category := pl.categories[s.intn(len(pl.categories))]
		orderDate := g.sampleDate(s, pl, category)

		order, err := sales.NewOrder(customer.ID, store.ID, orderDate)
		if err != nil {
			return nil, 0, err
		}

		items := s.itemsForOrder()
		for j := 0; j < items; j++ {
			product := g.sampleProduct(s, pl, category)
			price := s.jitteredPrice(product.RetailPrice())
			if store.OrderValueMultiplier != 1.0 {
				price = price.Mul(decimal.NewFromFloat(store.OrderValueMultiplier)).Round(2)
			}
			item, err := sales.NewOrderItem(product.ID, s.quantityForItem(), price, s.discountForItem())
			if err != nil {
				return nil, 0, err
			}
			order.AddItem(*item)
		}
		itemTotal += int64(items)
		orders = append(orders, order)
	}
	return orders, itemTotal, nil
}

// sampleDate draws year by growth weight and month by the category's
// seasonal table. Days are uniform over the month's actual length.
func (g *Generator) sampleDate(s *sampler, pl *plan, category *catalog.Category) time.Time {
	year := pl.years[s.weightedIndex(pl.yearWeights)]
	month := s.weightedIndex(category.Seasonal[:]) + 1
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := 1 + s.intn(daysInMonth)
	hour := s.intn(24)
	minute := s.intn(60)
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}

// sampleProduct stays inside the order's seasonal category most of the
// time and wanders across the whole catalog for the rest.
func (g *Generator) sampleProduct(s *sampler, pl *plan, category *catalog.Category) *catalog.Product {
	inCategory := pl.byCategory[category.ID]
	if len(inCategory) > 0 && s.chance(seasonalItemRatio) {
		return inCategory[s.intn(len(inCategory))]
	}
	return pl.allProducts[s.intn(len(pl.allProducts))]
}

// inventoryBaseStock anchors snapshot stock levels before the store
// and seasonal scaling is applied.
const inventoryBaseStock = 100

// generateInventory writes one stock snapshot per (store, product)
// pair, scaled by the store's customer share and the product
// category's average seasonality.
func (g *Generator) generateInventory(ctx context.Context, cfg Config, pl *plan) (int64, error) {
	s := newSampler(cfg.Seed)

	seasonalAvg := make(map[uuid.UUID]float64, len(pl.categories))
	for _, c := range pl.categories {
		seasonalAvg[c.ID] = c.Seasonal.Average()
	}

	var total int64
	for _, store := range pl.stores {
		records := make([]*sales.InventoryRecord, 0, len(pl.allProducts))
		for _, p := range pl.allProducts {
			jitter := 0.5 + s.rng.Float64()
			level := int(inventoryBaseStock * store.DistributionWeight * seasonalAvg[p.CategoryID] * jitter)
			records = append(records, sales.NewInventoryRecord(store.ID, p.ID, level))
		}
		if err := g.inventory.SaveBatch(ctx, records); err != nil {
			return total, fmt.Errorf("inventory for store %q: %w", store.Name, err)
		}
		total += int64(len(records))
	}
	return total, nil
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard",
	"Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Chen", "Yuki",
	"Amara", "Diego", "Priya", "Omar",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Nguyen", "Kim",
	"Patel", "Tanaka", "Okafor", "Novak",
}
