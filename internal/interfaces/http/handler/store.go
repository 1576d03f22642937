package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/retailsim/backend/internal/application/sales"
)

// StoreHandler serves store endpoints. Visibility is enforced below
// the repositories, so the handler never inspects tenant identity.
type StoreHandler struct {
	BaseHandler
	storeService *salesapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *salesapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// List handles GET /api/v1/stores
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.storeService.List(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, stores)
}

// Get handles GET /api/v1/stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid store ID")
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, store)
}
