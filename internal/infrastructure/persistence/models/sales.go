package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer entity.
type CustomerModel struct {
	BaseModel
	FirstName      string     `gorm:"type:varchar(100);not null"`
	LastName       string     `gorm:"type:varchar(100);not null"`
	Email          string     `gorm:"type:varchar(255)"`
	Phone          string     `gorm:"type:varchar(50)"`
	PrimaryStoreID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *sales.Customer {
	return &sales.Customer{
		BaseEntity:     m.BaseModel.ToDomain(),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		PrimaryStoreID: m.PrimaryStoreID,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *sales.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.PrimaryStoreID = c.PrimaryStoreID
}

// OrderModel is the persistence model for the Order entity.
type OrderModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate  time.Time `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order without
// items; callers load items separately when needed.
func (m *OrderModel) ToDomain() *sales.Order {
	return &sales.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		StoreID:    m.StoreID,
		OrderDate:  m.OrderDate,
	}
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.StoreID = o.StoreID
	m.OrderDate = o.OrderDate
}

// OrderItemModel is the persistence model for the OrderItem entity. The
// store ID mirrors the parent order so item rows are independently
// tenant-filterable without a join through orders.
type OrderItemModel struct {
	BaseModel
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercent int             `gorm:"not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() sales.OrderItem {
	return sales.OrderItem{
		BaseEntity:      m.BaseModel.ToDomain(),
		OrderID:         m.OrderID,
		StoreID:         m.StoreID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		DiscountAmount:  m.DiscountAmount,
		TotalAmount:     m.TotalAmount,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(item sales.OrderItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.OrderID = item.OrderID
	m.StoreID = item.StoreID
	m.ProductID = item.ProductID
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.DiscountPercent = item.DiscountPercent
	m.DiscountAmount = item.DiscountAmount
	m.TotalAmount = item.TotalAmount
}

// InventoryModel is the persistence model for the InventoryRecord
// entity: one row per (store, product) pair.
type InventoryModel struct {
	BaseModel
	StoreID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_store_product,priority:1"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_store_product,priority:2"`
	StockLevel int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryModel) TableName() string {
	return "inventory"
}

// ToDomain converts the persistence model to a domain InventoryRecord.
func (m *InventoryModel) ToDomain() sales.InventoryRecord {
	return sales.InventoryRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		StoreID:    m.StoreID,
		ProductID:  m.ProductID,
		StockLevel: m.StockLevel,
	}
}

// FromDomain populates the persistence model from a domain InventoryRecord.
func (m *InventoryModel) FromDomain(rec sales.InventoryRecord) {
	m.FromDomainBaseEntity(rec.BaseEntity)
	m.StoreID = rec.StoreID
	m.ProductID = rec.ProductID
	m.StockLevel = rec.StockLevel
}
