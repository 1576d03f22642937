package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailsim/backend/internal/interfaces/http/dto"
)

// ConnAcquirer reports whether a pooled database connection can be
// obtained within the configured acquire timeout.
type ConnAcquirer interface {
	Acquire(ctx context.Context) error
}

// Capacity rejects requests with 503 when the connection pool is
// saturated, instead of letting them queue behind it.
func Capacity(db ConnAcquirer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Acquire(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrCodeCapacity, "server is at capacity, retry later"))
			return
		}
		c.Next()
	}
}
