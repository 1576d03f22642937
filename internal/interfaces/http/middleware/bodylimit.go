package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailsim/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Similarity query vectors are the largest expected payload and stay
// well below one megabyte.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
