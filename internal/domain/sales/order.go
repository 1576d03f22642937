package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order belongs to exactly one store and one customer. The placement
// timestamp is timezone-naive and falls within the generation window.
type Order struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	StoreID    uuid.UUID
	OrderDate  time.Time
	Items      []OrderItem
}

// NewOrder creates an order for a customer at a store.
func NewOrder(customerID, storeID uuid.UUID, orderDate time.Time) (*Order, error) {
	if customerID == uuid.Nil || storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "order requires a customer and a store")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		StoreID:    storeID,
		OrderDate:  orderDate,
	}, nil
}

// AddItem appends a line item. The store on the item mirrors the
// order's store so item rows are independently tenant-filterable.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	item.StoreID = o.StoreID
	o.Items = append(o.Items, item)
}

// Total sums the line totals of all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalAmount)
	}
	return total
}

// OrderItem references exactly one product. UnitPrice is a snapshot of
// the product's retail price at generation time, not a live reference.
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	StoreID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent int
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
}

// NewOrderItem creates a line item and derives its discount and total.
func NewOrderItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal, discountPercent int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "order item requires a product")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "quantity must be positive")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "discount percent must be between 0 and 100")
	}

	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := gross.Mul(decimal.NewFromInt(int64(discountPercent))).Div(decimal.NewFromInt(100)).Round(2)

	return &OrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		TotalAmount:     gross.Sub(discount).Round(2),
	}, nil
}

// InventoryRecord is a point-in-time stock snapshot for one
// (store, product) pair. It is derived during generation, not a ledger
// decremented by orders.
type InventoryRecord struct {
	shared.BaseEntity
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	StockLevel int
}

// NewInventoryRecord creates a snapshot row; stock is clamped to 1.
func NewInventoryRecord(storeID, productID uuid.UUID, stockLevel int) *InventoryRecord {
	if stockLevel < 1 {
		stockLevel = 1
	}
	return &InventoryRecord{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		StockLevel: stockLevel,
	}
}
