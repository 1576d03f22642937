package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/interfaces/http/dto"
)

// TenantHeader is the out-of-band header carrying the tenant ID.
const TenantHeader = "X-Tenant-ID"

// TenantConfig holds tenant extraction configuration
type TenantConfig struct {
	// HeaderName overrides the tenant header name.
	HeaderName string
	// AllowSentinelDefault lets requests without a tenant header fall
	// back to the unrestricted sentinel view. It is off unless set
	// explicitly in configuration; there is no silent sentinel.
	AllowSentinelDefault bool
	// SkipPaths bypass tenant extraction entirely.
	SkipPaths []string
}

// DefaultTenantConfig returns default tenant extraction configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		HeaderName: TenantHeader,
		SkipPaths:  []string{"/health", "/healthz"},
	}
}

// Tenant resolves the caller's tenant identity from the request and
// attaches it to the request context. Every data access below the
// handler reads it from there.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = TenantHeader
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(cfg.HeaderName)
		if raw == "" {
			if !cfg.AllowSentinelDefault {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeTenantRequired, "missing "+cfg.HeaderName+" header"))
				return
			}
			attach(c, tenant.Sentinel())
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "malformed tenant ID"))
			return
		}

		attach(c, tenant.NewContext(id))
	}
}

func attach(c *gin.Context, tc tenant.Context) {
	c.Request = c.Request.WithContext(tenant.WithContext(c.Request.Context(), tc))
	c.Next()
}
