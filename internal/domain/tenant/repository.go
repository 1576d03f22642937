package tenant

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository provides access to stores. Reads are filtered by the
// isolation layer: a non-sentinel context sees only its own store.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*Store, error)
	FindAll(ctx context.Context) ([]Store, error)
	Save(ctx context.Context, store *Store) error
	Count(ctx context.Context) (int64, error)
}
