package generate

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/tenant"
	"go.uber.org/zap"
)

// Tolerances for the statistical checks. Shares are checked in
// absolute percentage points, ratios as relative deviation.
const (
	shareTolerance  = 0.05
	marginTolerance = 0.05
)

// Verifier checks a generated dataset against the statistical
// properties the generator is supposed to produce.
type Verifier struct {
	stores     tenant.StoreRepository
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	customers  sales.CustomerRepository
	orders     sales.OrderRepository
	inventory  sales.InventoryRepository
	log        *zap.Logger
}

// NewVerifier wires a verifier over the given repositories.
func NewVerifier(
	stores tenant.StoreRepository,
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	customers sales.CustomerRepository,
	orders sales.OrderRepository,
	inventory sales.InventoryRepository,
	log *zap.Logger,
) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{
		stores:     stores,
		categories: categories,
		products:   products,
		customers:  customers,
		orders:     orders,
		inventory:  inventory,
		log:        log,
	}
}

// Check is one verification outcome.
type Check struct {
	Name     string
	Expected float64
	Actual   float64
	OK       bool
	Detail   string
}

// Report aggregates all checks for one dataset.
type Report struct {
	Stores    int64
	Products  int64
	Customers int64
	Orders    int64
	Inventory int64
	Checks    []Check
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.OK {
			failed = append(failed, c)
		}
	}
	return failed
}

// Run computes the verification report under the sentinel context.
func (v *Verifier) Run(ctx context.Context) (*Report, error) {
	ctx = tenant.WithContext(ctx, tenant.Sentinel())

	report := &Report{}
	var err error
	if report.Stores, err = v.stores.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting stores: %w", err)
	}
	if report.Products, err = v.products.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}
	if report.Customers, err = v.customers.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting customers: %w", err)
	}
	if report.Orders, err = v.orders.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}
	if report.Inventory, err = v.inventory.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting inventory: %w", err)
	}

	if err := v.checkAssignment(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkStoreShares(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkMargin(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkSeasonality(ctx, report); err != nil {
		return nil, err
	}

	for _, c := range report.Checks {
		field := zap.Skip()
		if c.Detail != "" {
			field = zap.String("detail", c.Detail)
		}
		if c.OK {
			v.log.Info("check passed",
				zap.String("check", c.Name),
				zap.Float64("expected", c.Expected),
				zap.Float64("actual", c.Actual),
				field)
		} else {
			v.log.Warn("check failed",
				zap.String("check", c.Name),
				zap.Float64("expected", c.Expected),
				zap.Float64("actual", c.Actual),
				field)
		}
	}
	return report, nil
}

// checkAssignment verifies the split between assigned and walk-in
// customers.
func (v *Verifier) checkAssignment(ctx context.Context, report *Report) error {
	if report.Customers == 0 {
		return nil
	}
	unassigned, err := v.customers.CountUnassigned(ctx)
	if err != nil {
		return fmt.Errorf("counting unassigned customers: %w", err)
	}
	ratio := float64(unassigned) / float64(report.Customers)
	report.Checks = append(report.Checks, Check{
		Name:     "unassigned_customer_ratio",
		Expected: unassignedCustomerRatio,
		Actual:   ratio,
		OK:       math.Abs(ratio-unassignedCustomerRatio) <= shareTolerance,
	})
	return nil
}

// checkSeasonality verifies that each category's realized monthly
// volume peaks and dips where its multiplier table says it should.
// Flat tables carry no expectation and are skipped.
func (v *Verifier) checkSeasonality(ctx context.Context, report *Report) error {
	if report.Orders == 0 {
		return nil
	}
	categories, err := v.categories.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	for i := range categories {
		category := &categories[i]
		peak, low := category.Seasonal.PeakMonth(), category.Seasonal.LowMonth()
		if category.Seasonal.ForMonth(peak) == category.Seasonal.ForMonth(low) {
			continue
		}

		monthly, err := v.orders.MonthlyVolumeByCategory(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("monthly volume for %q: %w", category.Name, err)
		}
		if len(monthly) == 0 {
			continue
		}

		realizedPeak, realizedLow := 1, 1
		for month := 1; month <= 12; month++ {
			if monthly[month] > monthly[realizedPeak] {
				realizedPeak = month
			}
			if monthly[month] < monthly[realizedLow] {
				realizedLow = month
			}
		}

		report.Checks = append(report.Checks, Check{
			Name:     "category_peak_month",
			Expected: float64(peak),
			Actual:   float64(realizedPeak),
			OK:       category.Seasonal.ForMonth(realizedPeak) == category.Seasonal.ForMonth(peak),
			Detail:   category.Name,
		})
		report.Checks = append(report.Checks, Check{
			Name:     "category_low_month",
			Expected: float64(low),
			Actual:   float64(realizedLow),
			OK:       category.Seasonal.ForMonth(realizedLow) == category.Seasonal.ForMonth(low),
			Detail:   category.Name,
		})
	}
	return nil
}

// checkStoreShares verifies that assigned customers split across
// stores in proportion to the distribution weights.
func (v *Verifier) checkStoreShares(ctx context.Context, report *Report) error {
	stores, err := v.stores.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}
	counts, err := v.customers.CountByPrimaryStore(ctx)
	if err != nil {
		return fmt.Errorf("counting customers per store: %w", err)
	}

	var totalWeight float64
	var totalAssigned int64
	byID := make(map[uuid.UUID]*tenant.Store, len(stores))
	for i := range stores {
		totalWeight += stores[i].DistributionWeight
		byID[stores[i].ID] = &stores[i]
	}
	for _, n := range counts {
		totalAssigned += n
	}
	if totalAssigned == 0 || totalWeight == 0 {
		return nil
	}

	for id, store := range byID {
		expected := store.DistributionWeight / totalWeight
		actual := float64(counts[id]) / float64(totalAssigned)
		report.Checks = append(report.Checks, Check{
			Name:     "store_customer_share",
			Expected: expected,
			Actual:   actual,
			OK:       math.Abs(actual-expected) <= shareTolerance,
			Detail:   store.Name,
		})
	}

	orderCounts, err := v.orders.CountByStore(ctx)
	if err != nil {
		return fmt.Errorf("counting orders per store: %w", err)
	}
	var totalOrders int64
	var totalScaled float64
	for _, n := range orderCounts {
		totalOrders += n
	}
	for _, store := range byID {
		totalScaled += store.DistributionWeight * store.OrderFrequencyMultiplier
	}
	if totalOrders == 0 || totalScaled == 0 {
		return nil
	}

	for id, store := range byID {
		expected := store.DistributionWeight * store.OrderFrequencyMultiplier / totalScaled
		actual := float64(orderCounts[id]) / float64(totalOrders)
		report.Checks = append(report.Checks, Check{
			Name:     "store_order_share",
			Expected: expected,
			Actual:   actual,
			OK:       math.Abs(actual-expected) <= shareTolerance,
			Detail:   store.Name,
		})
	}
	return nil
}

// checkMargin verifies that realized revenue sits near the fixed gross
// margin over cost. Price jitter is symmetric and discounts are rare,
// so the aggregate stays close to the target.
func (v *Verifier) checkMargin(ctx context.Context, report *Report) error {
	if report.Orders == 0 {
		return nil
	}
	margin, err := v.orders.AggregateMargin(ctx)
	if err != nil {
		return fmt.Errorf("aggregating margin: %w", err)
	}
	report.Checks = append(report.Checks, Check{
		Name:     "realized_gross_margin",
		Expected: catalog.GrossMargin,
		Actual:   margin.RealizedRatio,
		OK:       math.Abs(margin.RealizedRatio-catalog.GrossMargin) <= marginTolerance,
	})
	return nil
}
