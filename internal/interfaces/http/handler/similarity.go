package handler

import (
	"github.com/gin-gonic/gin"
	similarityapp "github.com/retailsim/backend/internal/application/similarity"
)

// SimilarityHandler serves vector similarity queries
type SimilarityHandler struct {
	BaseHandler
	similarityService *similarityapp.SimilarityService
}

// NewSimilarityHandler creates a new SimilarityHandler
func NewSimilarityHandler(similarityService *similarityapp.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{similarityService: similarityService}
}

// SimilarRequest is the body of POST /api/v1/products/similar. The
// embedding space is inferred from the vector length.
type SimilarRequest struct {
	Vector      []float32 `json:"vector" binding:"required"`
	K           int       `json:"k" binding:"omitempty,min=1,max=100"`
	InStockOnly bool      `json:"in_stock_only"`
}

// Similar handles POST /api/v1/products/similar
func (h *SimilarityHandler) Similar(c *gin.Context) {
	var req SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}

	matches, err := h.similarityService.Search(c.Request.Context(), similarityapp.SearchRequest{
		Vector:      req.Vector,
		K:           req.K,
		InStockOnly: req.InStockOnly,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, matches)
}
