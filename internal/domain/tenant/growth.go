package tenant

import (
	"fmt"
	"sort"

	"github.com/retailsim/backend/internal/domain/shared"
)

// GrowthWeights maps calendar years to relative order-volume weights.
// The table establishes a year-over-year growth trajectory; the 2023
// weight sits deliberately below the trend of its neighbors, modeling a
// one-year contraction.
type GrowthWeights map[int]float64

// DefaultGrowthWeights covers the standard generation window.
func DefaultGrowthWeights() GrowthWeights {
	return GrowthWeights{
		2020: 0.60,
		2021: 0.75,
		2022: 0.90,
		2023: 0.80,
		2024: 1.10,
		2025: 1.25,
		2026: 1.40,
	}
}

// Validate checks that every weight is positive.
func (g GrowthWeights) Validate() error {
	if len(g) == 0 {
		return shared.NewDomainError("INVALID_GROWTH_WEIGHTS", "growth weight table cannot be empty")
	}
	for year, w := range g {
		if w <= 0 {
			return shared.NewDomainError("INVALID_GROWTH_WEIGHTS",
				fmt.Sprintf("growth weight for %d must be positive, got %v", year, w))
		}
	}
	return nil
}

// ForYear returns the weight for a year, defaulting to 1.
func (g GrowthWeights) ForYear(year int) float64 {
	if w, ok := g[year]; ok {
		return w
	}
	return 1.0
}

// Years returns the covered years in ascending order.
func (g GrowthWeights) Years() []int {
	years := make([]int, 0, len(g))
	for y := range g {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
