package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/retailsim/backend/internal/application/sales"
	"github.com/retailsim/backend/internal/interfaces/http/dto"
)

// CustomerHandler serves customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *salesapp.CustomerService
	orderService    *salesapp.OrderService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *salesapp.CustomerService, orderService *salesapp.OrderService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		orderService:    orderService,
	}
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	page, err := h.customerService.List(c.Request.Context(), salesapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListOrders handles GET /api/v1/customers/:id/orders
func (h *CustomerHandler) ListOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	orders, err := h.orderService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, orders)
}
