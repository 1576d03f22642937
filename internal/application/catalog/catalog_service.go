package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/shared"
)

// CatalogService serves the shared reference catalog. Catalog reads
// never require a tenant context.
type CatalogService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ListCategories retrieves all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *ToCategoryResponse(&categories[i]))
	}
	return responses, nil
}

// GetCategory retrieves one category with its product types
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, []ProductTypeResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	types, err := s.categoryRepo.FindProductTypes(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	typeResponses := make([]ProductTypeResponse, 0, len(types))
	for i := range types {
		typeResponses = append(typeResponses, *ToProductTypeResponse(&types[i]))
	}
	return ToCategoryResponse(category), typeResponses, nil
}

// ListProducts retrieves a paginated product listing
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	if filter.CategoryID != nil {
		products, err := s.productRepo.FindByCategory(ctx, *filter.CategoryID)
		if err != nil {
			return nil, err
		}
		responses := toProductResponses(products)
		page := shared.NewPaginated(responses, int64(len(responses)), 1, max(len(responses), 1))
		return &page, nil
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toProductResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetProductBySKU retrieves a product by SKU
func (s *CatalogService) GetProductBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *ToProductResponse(&products[i]))
	}
	return responses
}
