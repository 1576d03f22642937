package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GrossMargin is the fixed margin applied to every product. The retail
// price is always cost / (1 - GrossMargin); it is never stored
// independently of the cost.
const GrossMargin = 0.33

var marginDivisor = decimal.NewFromFloat(1 - GrossMargin)

// Embedding space dimensions. A query vector must match one of these
// exactly.
const (
	ImageEmbeddingDim       = 512
	DescriptionEmbeddingDim = 1536
)

// Product is a catalog SKU. Products are shared reference data visible
// to every tenant context.
type Product struct {
	shared.BaseEntity
	SKU           string
	Name          string
	Description   string
	CategoryID    uuid.UUID
	ProductTypeID uuid.UUID
	Cost          decimal.Decimal
}

// NewProduct creates a product with a validated SKU and positive cost.
func NewProduct(sku, name string, categoryID, productTypeID uuid.UUID, cost decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product name cannot be empty")
	}
	if cost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product cost must be positive")
	}
	return &Product{
		BaseEntity:    shared.NewBaseEntity(),
		SKU:           strings.ToUpper(sku),
		Name:          name,
		CategoryID:    categoryID,
		ProductTypeID: productTypeID,
		Cost:          cost,
	}, nil
}

// RetailPrice derives the selling price from cost via the fixed margin.
func (p *Product) RetailPrice() decimal.Decimal {
	return p.Cost.Div(marginDivisor).Round(2)
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

// Embedding is a product vector in one of the two supported spaces.
type Embedding struct {
	ProductID uuid.UUID
	Vector    []float32
}

// Dim returns the dimensionality of the embedding vector.
func (e Embedding) Dim() int {
	return len(e.Vector)
}

// EmbeddingSpace identifies one of the two supported vector spaces.
type EmbeddingSpace string

const (
	SpaceImage       EmbeddingSpace = "image"
	SpaceDescription EmbeddingSpace = "description"
)

// SpaceForDim resolves an embedding space from a vector length. It
// distinguishes an unsupported dimension from an empty result set.
func SpaceForDim(dim int) (EmbeddingSpace, error) {
	switch dim {
	case ImageEmbeddingDim:
		return SpaceImage, nil
	case DescriptionEmbeddingDim:
		return SpaceDescription, nil
	default:
		return "", shared.ErrDimensionMismatch
	}
}

// Dim returns the required vector length for the space.
func (s EmbeddingSpace) Dim() int {
	if s == SpaceImage {
		return ImageEmbeddingDim
	}
	return DescriptionEmbeddingDim
}
