package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/retailsim/backend/internal/application/sales"
	"github.com/retailsim/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves stock snapshot endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *salesapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *salesapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles GET /api/v1/inventory. An optional store_id query
// narrows the listing to one store.
func (h *InventoryHandler) List(c *gin.Context) {
	if raw := c.Query("store_id"); raw != "" {
		storeID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid store_id")
			return
		}
		records, err := h.inventoryService.ListByStore(c.Request.Context(), storeID)
		if err != nil {
			h.DomainError(c, err)
			return
		}
		h.Success(c, records)
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	page, err := h.inventoryService.List(c.Request.Context(), salesapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
