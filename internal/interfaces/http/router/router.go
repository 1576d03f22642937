// Package router assembles the gin engine of the query server.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retailsim/backend/internal/infrastructure/config"
	"github.com/retailsim/backend/internal/infrastructure/logger"
	"github.com/retailsim/backend/internal/interfaces/http/handler"
	"github.com/retailsim/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the endpoint handlers wired by the router.
type Handlers struct {
	Health     *handler.HealthHandler
	Catalog    *handler.CatalogHandler
	Store      *handler.StoreHandler
	Customer   *handler.CustomerHandler
	Order      *handler.OrderHandler
	Inventory  *handler.InventoryHandler
	Similarity *handler.SimilarityHandler

	// DB guards the API group with a pool-capacity check when set.
	DB middleware.ConnAcquirer
}

// New builds the engine with the full middleware chain and routes.
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/healthz", h.Health.Health)

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.HeaderName = cfg.Tenant.HeaderName
	tenantCfg.AllowSentinelDefault = cfg.Tenant.AllowSentinelDefault

	api := engine.Group("/api/v1", middleware.Tenant(tenantCfg))
	if h.DB != nil {
		api.Use(middleware.Capacity(h.DB))
	}
	{
		api.GET("/categories", h.Catalog.ListCategories)
		api.GET("/categories/:id", h.Catalog.GetCategory)
		api.GET("/products", h.Catalog.ListProducts)
		api.GET("/products/:id", h.Catalog.GetProduct)
		api.POST("/products/similar", h.Similarity.Similar)

		api.GET("/stores", h.Store.List)
		api.GET("/stores/:id", h.Store.Get)

		api.GET("/customers", h.Customer.List)
		api.GET("/customers/:id", h.Customer.Get)
		api.GET("/customers/:id/orders", h.Customer.ListOrders)

		api.GET("/orders", h.Order.List)
		api.GET("/orders/:id", h.Order.Get)

		api.GET("/inventory", h.Inventory.List)
	}

	return engine
}
