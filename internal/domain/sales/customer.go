// Package sales holds the transactional entities produced by the
// dataset generator: customers, orders, order items, and per-store
// inventory snapshots.
package sales

import (
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
)

// Customer is created by the generator and never mutated afterwards.
// PrimaryStoreID is nil for walk-in or online-acquired customers.
type Customer struct {
	shared.BaseEntity
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PrimaryStoreID *uuid.UUID
}

// NewCustomer creates a customer, optionally assigned to a store.
func NewCustomer(firstName, lastName, email, phone string, primaryStoreID *uuid.UUID) (*Customer, error) {
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "customer name cannot be empty")
	}
	return &Customer{
		BaseEntity:     shared.NewBaseEntity(),
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          phone,
		PrimaryStoreID: primaryStoreID,
	}, nil
}

// IsAssigned reports whether the customer has a primary store.
func (c *Customer) IsAssigned() bool {
	return c.PrimaryStoreID != nil
}
