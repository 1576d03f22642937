package models

import (
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/tenant"
)

// StoreModel is the persistence model for the Store entity. TenantID is
// the opaque isolation token; it is distinct from the row ID.
type StoreModel struct {
	BaseModel
	Name                     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	TenantID                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IsOnline                 bool      `gorm:"not null;default:false"`
	DistributionWeight       float64   `gorm:"not null"`
	OrderFrequencyMultiplier float64   `gorm:"not null;default:1"`
	OrderValueMultiplier     float64   `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store.
func (m *StoreModel) ToDomain() *tenant.Store {
	return &tenant.Store{
		BaseEntity:               m.BaseModel.ToDomain(),
		Name:                     m.Name,
		TenantID:                 m.TenantID,
		IsOnline:                 m.IsOnline,
		DistributionWeight:       m.DistributionWeight,
		OrderFrequencyMultiplier: m.OrderFrequencyMultiplier,
		OrderValueMultiplier:     m.OrderValueMultiplier,
	}
}

// FromDomain populates the persistence model from a domain Store.
func (m *StoreModel) FromDomain(s *tenant.Store) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.TenantID = s.TenantID
	m.IsOnline = s.IsOnline
	m.DistributionWeight = s.DistributionWeight
	m.OrderFrequencyMultiplier = s.OrderFrequencyMultiplier
	m.OrderValueMultiplier = s.OrderValueMultiplier
}
