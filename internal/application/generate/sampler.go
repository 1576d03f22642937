package generate

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Sampling tables for order shape. Values are relative weights, not
// probabilities.
var (
	// ordersPerCustomer maps 0..5 orders to their weights.
	ordersPerCustomerWeights = []float64{20, 40, 20, 10, 7, 3}

	// itemsPerOrder maps 1..5 line items to their weights.
	itemsPerOrderWeights = []float64{40, 30, 15, 10, 5}

	// quantity maps 1..5 units to their weights.
	quantityWeights = []float64{60, 25, 10, 3, 2}

	// discountPercents are the tiers applied when an item is discounted.
	discountPercents = []int{5, 10, 15, 20, 25}
)

const (
	// unassignedCustomerRatio is the fraction of customers generated
	// without a primary store.
	unassignedCustomerRatio = 0.20

	// primaryStoreOrderRatio is how often an assigned customer orders
	// at their own store rather than cross-store.
	primaryStoreOrderRatio = 0.85

	// seasonalItemRatio is how often a line item comes from the order's
	// seasonal category rather than anywhere in the catalog.
	seasonalItemRatio = 0.90

	// discountChance is the probability that a line item is discounted.
	discountChance = 0.15

	// priceJitterLow and priceJitterHigh bound the uniform factor
	// applied to the retail price when snapshotting a unit price.
	priceJitterLow  = 0.8
	priceJitterHigh = 1.2
)

// sampler wraps a seeded random source with the categorical draws the
// generator needs. It is not safe for concurrent use; each batch gets
// its own sampler derived from the run seed.
type sampler struct {
	rng *rand.Rand
}

func newSampler(seed int64) *sampler {
	return &sampler{rng: rand.New(rand.NewSource(seed))}
}

// weightedIndex draws an index according to the given weights. Weights
// must be non-negative with a positive sum.
func (s *sampler) weightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	target := s.rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// ordersForCustomer draws how many orders a customer places, scaled by
// the store's order-frequency multiplier.
func (s *sampler) ordersForCustomer(frequencyMultiplier float64) int {
	base := s.weightedIndex(ordersPerCustomerWeights)
	if base == 0 {
		return 0
	}
	scaled := float64(base) * frequencyMultiplier
	n := int(scaled)
	if s.rng.Float64() < scaled-float64(n) {
		n++
	}
	// a customer who ordered at all keeps at least one order however
	// small the frequency multiplier
	if n < 1 {
		n = 1
	}
	return n
}

// itemsForOrder draws the line-item count for one order.
func (s *sampler) itemsForOrder() int {
	return s.weightedIndex(itemsPerOrderWeights) + 1
}

// quantityForItem draws the unit count for one line item.
func (s *sampler) quantityForItem() int {
	return s.weightedIndex(quantityWeights) + 1
}

// discountForItem draws a discount percent; most items get none.
func (s *sampler) discountForItem() int {
	if s.rng.Float64() >= discountChance {
		return 0
	}
	return discountPercents[s.rng.Intn(len(discountPercents))]
}

// jitteredPrice snapshots a unit price around the retail price.
func (s *sampler) jitteredPrice(retail decimal.Decimal) decimal.Decimal {
	factor := priceJitterLow + s.rng.Float64()*(priceJitterHigh-priceJitterLow)
	return retail.Mul(decimal.NewFromFloat(factor)).Round(2)
}

// chance reports a biased coin flip.
func (s *sampler) chance(p float64) bool {
	return s.rng.Float64() < p
}

// intn draws a uniform integer in [0, n).
func (s *sampler) intn(n int) int {
	return s.rng.Intn(n)
}
