package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
)

// InventoryService serves stock snapshot lookups.
type InventoryService struct {
	inventoryRepo sales.InventoryRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(inventoryRepo sales.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// List retrieves a paginated snapshot listing
func (s *InventoryService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[InventoryResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	records, err := s.inventoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.inventoryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	responses := toInventoryResponses(records)
	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListByStore retrieves every snapshot of one store
func (s *InventoryService) ListByStore(ctx context.Context, storeID uuid.UUID) ([]InventoryResponse, error) {
	records, err := s.inventoryRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(records), nil
}

func toInventoryResponses(records []sales.InventoryRecord) []InventoryResponse {
	responses := make([]InventoryResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *ToInventoryResponse(&records[i]))
	}
	return responses
}
