package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
)

// CustomerService serves customer lookups. Visibility follows the
// isolation rules: a customer belongs to the view when its primary
// store matches the caller, or when it ordered at a visible store.
type CustomerService struct {
	customerRepo sales.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo sales.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// List retrieves a paginated customer listing
func (s *CustomerService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *ToCustomerResponse(&customers[i]))
	}
	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}
