package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID                       uuid.UUID `json:"id"`
	TenantID                 uuid.UUID `json:"tenant_id"`
	Name                     string    `json:"name"`
	IsOnline                 bool      `json:"is_online"`
	DistributionWeight       float64   `json:"distribution_weight"`
	OrderFrequencyMultiplier float64   `json:"order_frequency_multiplier"`
	OrderValueMultiplier     float64   `json:"order_value_multiplier"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	PrimaryStoreID *uuid.UUID `json:"primary_store_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	StoreID     uuid.UUID           `json:"store_id"`
	OrderDate   time.Time           `json:"order_date"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items,omitempty"`
}

// InventoryResponse represents a stock snapshot in API responses
type InventoryResponse struct {
	ID         uuid.UUID `json:"id"`
	StoreID    uuid.UUID `json:"store_id"`
	ProductID  uuid.UUID `json:"product_id"`
	StockLevel int       `json:"stock_level"`
}

// ListFilter carries pagination from the HTTP layer
type ListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ToStoreResponse converts a domain store
func ToStoreResponse(s *tenant.Store) *StoreResponse {
	return &StoreResponse{
		ID:                       s.ID,
		TenantID:                 s.TenantID,
		Name:                     s.Name,
		IsOnline:                 s.IsOnline,
		DistributionWeight:       s.DistributionWeight,
		OrderFrequencyMultiplier: s.OrderFrequencyMultiplier,
		OrderValueMultiplier:     s.OrderValueMultiplier,
	}
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *sales.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		PrimaryStoreID: c.PrimaryStoreID,
		CreatedAt:      c.CreatedAt,
	}
}

// ToOrderResponse converts a domain order with its items
func ToOrderResponse(o *sales.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TotalAmount:     item.TotalAmount,
		})
	}
	return &OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		StoreID:     o.StoreID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.Total(),
		Items:       items,
	}
}

// ToInventoryResponse converts a domain stock snapshot
func ToInventoryResponse(r *sales.InventoryRecord) *InventoryResponse {
	return &InventoryResponse{
		ID:         r.ID,
		StoreID:    r.StoreID,
		ProductID:  r.ProductID,
		StockLevel: r.StockLevel,
	}
}
