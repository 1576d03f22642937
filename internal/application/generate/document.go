package generate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

// CatalogDocument is the structured input defining the category →
// product-type → product hierarchy with seasonal multipliers and
// per-product cost and optional embeddings. It is validated fully
// before any generation work begins.
type CatalogDocument struct {
	Categories []CategoryDoc `json:"categories" validate:"required,min=1,dive"`
}

// CategoryDoc is one category with its seasonal multiplier table.
type CategoryDoc struct {
	Name     string           `json:"name" validate:"required"`
	Seasonal []float64        `json:"seasonal_multipliers" validate:"required,len=12,dive,gt=0"`
	Types    []ProductTypeDoc `json:"product_types" validate:"required,min=1,dive"`
}

// ProductTypeDoc is one product type and its products.
type ProductTypeDoc struct {
	Name     string       `json:"name" validate:"required"`
	Products []ProductDoc `json:"products" validate:"required,min=1,dive"`
}

// ProductDoc is one product. Embeddings are optional; when present
// their dimensions must match the image and description spaces.
type ProductDoc struct {
	SKU                  string    `json:"sku" validate:"required,max=50"`
	Name                 string    `json:"name" validate:"required"`
	Description          string    `json:"description"`
	Cost                 float64   `json:"cost" validate:"required,gt=0"`
	ImageEmbedding       []float32 `json:"image_embedding,omitempty"`
	DescriptionEmbedding []float32 `json:"description_embedding,omitempty"`
}

// StoresDocument is the structured input defining per-store tenant
// identity and weighting, plus the per-year growth weights.
type StoresDocument struct {
	Stores        []StoreDoc         `json:"stores" validate:"required,min=1,dive"`
	GrowthWeights map[string]float64 `json:"growth_weights,omitempty" validate:"omitempty,dive,gt=0"`
}

// StoreDoc is one store definition.
type StoreDoc struct {
	Name                     string  `json:"name" validate:"required"`
	TenantID                 string  `json:"tenant_id" validate:"required,uuid"`
	IsOnline                 bool    `json:"is_online"`
	DistributionWeight       float64 `json:"distribution_weight" validate:"required,gt=0"`
	OrderFrequencyMultiplier float64 `json:"order_frequency_multiplier" validate:"required,gt=0"`
	OrderValueMultiplier     float64 `json:"order_value_multiplier" validate:"required,gt=0"`
}

var validate = validator.New()

// LoadCatalogDocument reads and fully validates a catalog document.
func LoadCatalogDocument(path string) (*CatalogDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog document: %w", err)
	}

	var doc CatalogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the whole document, including the constraints the
// struct tags cannot express.
func (d *CatalogDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid catalog document: %w", err)
	}

	seenSKU := make(map[string]struct{})
	for _, cat := range d.Categories {
		for _, pt := range cat.Types {
			for _, p := range pt.Products {
				if _, dup := seenSKU[p.SKU]; dup {
					return fmt.Errorf("invalid catalog document: duplicate SKU %q", p.SKU)
				}
				seenSKU[p.SKU] = struct{}{}

				if len(p.ImageEmbedding) > 0 && len(p.ImageEmbedding) != catalog.ImageEmbeddingDim {
					return fmt.Errorf("invalid catalog document: product %q image embedding has %d dimensions, want %d",
						p.SKU, len(p.ImageEmbedding), catalog.ImageEmbeddingDim)
				}
				if len(p.DescriptionEmbedding) > 0 && len(p.DescriptionEmbedding) != catalog.DescriptionEmbeddingDim {
					return fmt.Errorf("invalid catalog document: product %q description embedding has %d dimensions, want %d",
						p.SKU, len(p.DescriptionEmbedding), catalog.DescriptionEmbeddingDim)
				}
			}
		}
	}
	return nil
}

// LoadStoresDocument reads and fully validates a stores document.
func LoadStoresDocument(path string) (*StoresDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stores document: %w", err)
	}

	var doc StoresDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing stores document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the stores document. Tenant IDs must be unique and
// never the sentinel.
func (d *StoresDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid stores document: %w", err)
	}

	seenTenant := make(map[string]struct{})
	for _, s := range d.Stores {
		id, err := uuid.Parse(s.TenantID)
		if err != nil {
			return fmt.Errorf("invalid stores document: store %q tenant ID: %w", s.Name, err)
		}
		if id == tenant.SentinelTenantID {
			return fmt.Errorf("invalid stores document: store %q uses the reserved sentinel tenant ID", s.Name)
		}
		if _, dup := seenTenant[s.TenantID]; dup {
			return fmt.Errorf("invalid stores document: duplicate tenant ID %s", s.TenantID)
		}
		seenTenant[s.TenantID] = struct{}{}
	}
	return nil
}

// BuildCatalog materializes domain entities from a validated document.
func (d *CatalogDocument) BuildCatalog() ([]*catalog.Category, []*catalog.ProductType, []*catalog.Product, error) {
	var (
		categories []*catalog.Category
		types      []*catalog.ProductType
		products   []*catalog.Product
	)

	for _, catDoc := range d.Categories {
		var seasonal catalog.SeasonalMultipliers
		copy(seasonal[:], catDoc.Seasonal)

		category, err := catalog.NewCategory(catDoc.Name, seasonal)
		if err != nil {
			return nil, nil, nil, err
		}
		categories = append(categories, category)

		for _, ptDoc := range catDoc.Types {
			pt, err := catalog.NewProductType(category.ID, ptDoc.Name)
			if err != nil {
				return nil, nil, nil, err
			}
			types = append(types, pt)

			for _, pDoc := range ptDoc.Products {
				product, err := catalog.NewProduct(pDoc.SKU, pDoc.Name, category.ID, pt.ID, decimal.NewFromFloat(pDoc.Cost))
				if err != nil {
					return nil, nil, nil, err
				}
				product.Description = pDoc.Description
				products = append(products, product)
			}
		}
	}
	return categories, types, products, nil
}

// BuildStores materializes domain stores and growth weights from a
// validated document. Missing growth weights fall back to the default
// table.
func (d *StoresDocument) BuildStores() ([]*tenant.Store, tenant.GrowthWeights, error) {
	stores := make([]*tenant.Store, 0, len(d.Stores))
	for _, sDoc := range d.Stores {
		tenantID, err := uuid.Parse(sDoc.TenantID)
		if err != nil {
			return nil, nil, err
		}
		store, err := tenant.NewStore(sDoc.Name, tenantID, sDoc.IsOnline,
			sDoc.DistributionWeight, sDoc.OrderFrequencyMultiplier, sDoc.OrderValueMultiplier)
		if err != nil {
			return nil, nil, err
		}
		stores = append(stores, store)
	}

	if len(d.GrowthWeights) == 0 {
		return stores, tenant.DefaultGrowthWeights(), nil
	}

	growth := make(tenant.GrowthWeights, len(d.GrowthWeights))
	for yearStr, weight := range d.GrowthWeights {
		var year int
		if _, err := fmt.Sscanf(yearStr, "%d", &year); err != nil {
			return nil, nil, fmt.Errorf("invalid stores document: growth weight year %q: %w", yearStr, err)
		}
		growth[year] = weight
	}
	if err := growth.Validate(); err != nil {
		return nil, nil, err
	}
	return stores, growth, nil
}
