// Package tenant defines the stores that act as tenants, the
// request-scoped tenant context, and the growth weighting applied per
// calendar year during generation.
package tenant

import (
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
)

// SentinelTenantID is the all-zero super-tenant. A context bound to it
// sees every row; it is reserved for trusted administrative callers and
// is never assigned to a store.
var SentinelTenantID = uuid.Nil

// Store identifies a tenant. The tenant ID is an opaque token, globally
// unique and never reused; it is distinct from the store's row ID.
type Store struct {
	shared.BaseEntity
	Name     string
	TenantID uuid.UUID
	IsOnline bool

	// DistributionWeight is the relative share of customers assigned to
	// this store. Weights are positive and need not sum to 1.
	DistributionWeight float64
	// OrderFrequencyMultiplier scales how often assigned customers order.
	OrderFrequencyMultiplier float64
	// OrderValueMultiplier scales the average order value.
	OrderValueMultiplier float64
}

// NewStore creates a store after validating its weights.
func NewStore(name string, tenantID uuid.UUID, isOnline bool, distWeight, freqMult, valueMult float64) (*Store, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STORE", "store name cannot be empty")
	}
	if tenantID == SentinelTenantID {
		return nil, shared.NewDomainError("INVALID_STORE", "store tenant ID cannot be the sentinel")
	}
	if distWeight <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "customer distribution weight must be positive")
	}
	if freqMult <= 0 || valueMult <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "order multipliers must be positive")
	}
	return &Store{
		BaseEntity:               shared.NewBaseEntity(),
		Name:                     name,
		TenantID:                 tenantID,
		IsOnline:                 isOnline,
		DistributionWeight:       distWeight,
		OrderFrequencyMultiplier: freqMult,
		OrderValueMultiplier:     valueMult,
	}, nil
}
