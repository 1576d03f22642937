package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Seasonal  []float64 `json:"seasonal_multipliers"`
	PeakMonth int       `json:"peak_month"`
	LowMonth  int       `json:"low_month"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductTypeResponse represents a product type in API responses
type ProductTypeResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// ProductResponse represents a product in API responses. RetailPrice
// is always derived from cost, never read from storage.
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `json:"category_id"`
	ProductTypeID uuid.UUID       `json:"product_type_id"`
	Cost          decimal.Decimal `json:"cost"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductListFilter narrows a product listing
type ProductListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	CategoryID *uuid.UUID `form:"category_id"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Seasonal:  c.Seasonal[:],
		PeakMonth: c.Seasonal.PeakMonth(),
		LowMonth:  c.Seasonal.LowMonth(),
		CreatedAt: c.CreatedAt,
	}
}

// ToProductTypeResponse converts a domain product type
func ToProductTypeResponse(pt *catalog.ProductType) *ProductTypeResponse {
	return &ProductTypeResponse{
		ID:         pt.ID,
		CategoryID: pt.CategoryID,
		Name:       pt.Name,
	}
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		ProductTypeID: p.ProductTypeID,
		Cost:          p.Cost,
		RetailPrice:   p.RetailPrice(),
		CreatedAt:     p.CreatedAt,
	}
}
