package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/tenant"
)

// StoreService serves store lookups. Row filtering happens below the
// repository, so a tenant sees only its own store here while the
// sentinel sees all of them.
type StoreService struct {
	storeRepo tenant.StoreRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo tenant.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// List retrieves the stores visible to the caller
func (s *StoreService) List(ctx context.Context) ([]StoreResponse, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, *ToStoreResponse(&stores[i]))
	}
	return responses, nil
}

// Get retrieves a store by ID
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStoreResponse(store), nil
}
