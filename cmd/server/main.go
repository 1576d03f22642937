package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/retailsim/backend/internal/application/catalog"
	"github.com/retailsim/backend/internal/application/generate"
	salesapp "github.com/retailsim/backend/internal/application/sales"
	similarityapp "github.com/retailsim/backend/internal/application/similarity"
	"github.com/retailsim/backend/internal/infrastructure/cache"
	"github.com/retailsim/backend/internal/infrastructure/config"
	"github.com/retailsim/backend/internal/infrastructure/logger"
	"github.com/retailsim/backend/internal/infrastructure/persistence"
	"github.com/retailsim/backend/internal/infrastructure/persistence/tenantscope"
	"github.com/retailsim/backend/internal/infrastructure/telemetry"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"github.com/retailsim/backend/internal/interfaces/http/handler"
	"github.com/retailsim/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting retail dataset server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing (optional, controlled by config)
	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
		log.Info("Tracing enabled",
			zap.String("endpoint", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Database connection with zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Tenant visibility callback. Every query against a tenant-scoped
	// table carries the tenant predicate from here on.
	if err := tenantscope.Register(db.DB); err != nil {
		log.Fatal("Failed to register tenant scope callback", zap.Error(err))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database tracing enabled",
			zap.Duration("slow_query_threshold", cfg.Telemetry.DBSlowQueryThresh),
		)
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	embeddingRepo := persistence.NewGormEmbeddingRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)

	// Vector index, rebuilt from the embeddings tables at startup so it
	// always reflects what the database holds.
	index, err := vectorstore.NewChromemIndex(vectorstore.ChromemConfig{
		Path:     cfg.Vector.Path,
		Compress: cfg.Vector.Compress,
	}, log)
	if err != nil {
		log.Fatal("Failed to open vector index", zap.Error(err))
	}
	defer func() {
		if err := index.Close(); err != nil {
			log.Error("Error closing vector index", zap.Error(err))
		}
	}()

	loader := generate.NewEmbeddingLoader(productRepo, embeddingRepo, index, log)
	if err := loader.RebuildIndex(context.Background()); err != nil {
		log.Fatal("Failed to rebuild vector index", zap.Error(err))
	}

	// Similarity result cache, Redis with in-memory fallback
	cacheFactory := cache.NewSimilarityCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	similarityCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create similarity cache", zap.Error(err))
	}
	defer func() {
		if err := similarityCache.Close(); err != nil {
			log.Error("Error closing similarity cache", zap.Error(err))
		}
	}()

	// Application services
	catalogService := catalogapp.NewCatalogService(categoryRepo, productRepo)
	storeService := salesapp.NewStoreService(storeRepo)
	customerService := salesapp.NewCustomerService(customerRepo)
	orderService := salesapp.NewOrderService(orderRepo)
	inventoryService := salesapp.NewInventoryService(inventoryRepo)
	similarityService := similarityapp.NewSimilarityService(
		productRepo, inventoryRepo, index, similarityCache, log,
		similarityapp.WithCacheTTL(cfg.Redis.SimilarityTTL))

	// HTTP handlers and router
	engine := router.New(cfg, log, router.Handlers{
		Health:     handler.NewHealthHandler(db.DB, version),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Store:      handler.NewStoreHandler(storeService),
		Customer:   handler.NewCustomerHandler(customerService, orderService),
		Order:      handler.NewOrderHandler(orderService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Similarity: handler.NewSimilarityHandler(similarityService),
		DB:         db,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
