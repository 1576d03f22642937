package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
)

// MonthsPerYear is the required length of a seasonal multiplier table.
const MonthsPerYear = 12

// SeasonalMultipliers scales expected order volume per calendar month.
// Index 0 is January. Values must be positive; they are relative
// weights, not probabilities.
type SeasonalMultipliers [MonthsPerYear]float64

// Validate checks that every monthly multiplier is positive.
func (s SeasonalMultipliers) Validate() error {
	for i, m := range s {
		if m <= 0 {
			return shared.NewDomainError("INVALID_SEASONAL_MULTIPLIER",
				fmt.Sprintf("seasonal multiplier for month %d must be positive, got %v", i+1, m))
		}
	}
	return nil
}

// ForMonth returns the multiplier for a calendar month (1-12).
func (s SeasonalMultipliers) ForMonth(month int) float64 {
	return s[month-1]
}

// Average returns the mean multiplier across the year.
func (s SeasonalMultipliers) Average() float64 {
	var sum float64
	for _, m := range s {
		sum += m
	}
	return sum / MonthsPerYear
}

// PeakMonth returns the 1-based month with the highest multiplier.
func (s SeasonalMultipliers) PeakMonth() int {
	peak := 0
	for i := 1; i < MonthsPerYear; i++ {
		if s[i] > s[peak] {
			peak = i
		}
	}
	return peak + 1
}

// LowMonth returns the 1-based month with the lowest multiplier.
func (s SeasonalMultipliers) LowMonth() int {
	low := 0
	for i := 1; i < MonthsPerYear; i++ {
		if s[i] < s[low] {
			low = i
		}
	}
	return low + 1
}

// Category is the top level of the product hierarchy. Categories are
// shared reference data and are never tenant-filtered.
type Category struct {
	shared.BaseEntity
	Name     string
	Seasonal SeasonalMultipliers
}

// NewCategory creates a category after validating its seasonal table.
func NewCategory(name string, seasonal SeasonalMultipliers) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "category name cannot be empty")
	}
	if err := seasonal.Validate(); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Seasonal:   seasonal,
	}, nil
}

// ProductType is the middle level of the hierarchy. It groups products
// within a category.
type ProductType struct {
	shared.BaseEntity
	CategoryID uuid.UUID
	Name       string
}

// NewProductType creates a product type under an existing category.
func NewProductType(categoryID uuid.UUID, name string) (*ProductType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "product type name cannot be empty")
	}
	return &ProductType{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
	}, nil
}
