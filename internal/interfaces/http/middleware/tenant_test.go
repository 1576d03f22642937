package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantTestRouter(cfg TenantConfig) (*gin.Engine, *tenant.Context, *bool) {
	gin.SetMode(gin.TestMode)

	var captured tenant.Context
	var present bool

	r := gin.New()
	r.Use(Tenant(cfg))
	r.GET("/api/v1/stores", func(c *gin.Context) {
		captured, present = tenant.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) {
		_, present = tenant.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, &captured, &present
}

func TestTenantMiddleware(t *testing.T) {
	t.Run("extracts_tenant_from_header", func(t *testing.T) {
		r, captured, present := tenantTestRouter(DefaultTenantConfig())
		id := uuid.New()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
		req.Header.Set(TenantHeader, id.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *present)
		assert.Equal(t, id, captured.TenantID)
	})

	t.Run("rejects_missing_header_by_default", func(t *testing.T) {
		r, _, _ := tenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TENANT_REQUIRED")
	})

	t.Run("rejects_malformed_tenant_id", func(t *testing.T) {
		r, _, _ := tenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
		req.Header.Set(TenantHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("sentinel_fallback_only_when_configured", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.AllowSentinelDefault = true
		r, captured, present := tenantTestRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *present)
		assert.True(t, captured.IsSentinel())
	})

	t.Run("explicit_sentinel_header_is_honored", func(t *testing.T) {
		r, captured, present := tenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
		req.Header.Set(TenantHeader, uuid.Nil.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *present)
		assert.True(t, captured.IsSentinel())
	})

	t.Run("skips_health_endpoint", func(t *testing.T) {
		r, _, present := tenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, *present)
	})
}
