package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/retailsim/backend/internal/application/generate"
	"github.com/retailsim/backend/internal/infrastructure/config"
	"github.com/retailsim/backend/internal/infrastructure/logger"
	"github.com/retailsim/backend/internal/infrastructure/persistence"
	"github.com/retailsim/backend/internal/infrastructure/persistence/tenantscope"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"go.uber.org/zap"
)

func main() {
	var (
		mode      string
		customers int
		batchSize int
		workers   int
		fromYear  int
		toYear    int
		seed      int64
		catalog   string
		stores    string
		logLevel  string
	)

	flag.StringVar(&mode, "mode", "generate", "What to run: generate, embeddings, verify, stats")
	flag.IntVar(&customers, "customers", 0, "Number of customers to generate (default from config)")
	flag.IntVar(&batchSize, "batch-size", 0, "Customers per batch (default from config)")
	flag.IntVar(&workers, "workers", 0, "Concurrent batch workers (default from config)")
	flag.IntVar(&fromYear, "from-year", 0, "First order year (default from config)")
	flag.IntVar(&toYear, "to-year", 0, "Last order year (default from config)")
	flag.Int64Var(&seed, "seed", 0, "Random seed; same seed reproduces the same dataset")
	flag.StringVar(&catalog, "catalog", "", "Path to the catalog document (default from config)")
	flag.StringVar(&stores, "stores", "", "Path to the stores document (default from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Flags override file and environment configuration.
	gen := cfg.Generator
	if customers > 0 {
		gen.CustomerCount = customers
	}
	if batchSize > 0 {
		gen.BatchSize = batchSize
	}
	if workers > 0 {
		gen.Workers = workers
	}
	if fromYear > 0 {
		gen.FromYear = fromYear
	}
	if toYear > 0 {
		gen.ToYear = toYear
	}
	if seed != 0 {
		gen.Seed = seed
	}
	if catalog != "" {
		gen.CatalogPath = catalog
	}
	if stores != "" {
		gen.StoresPath = stores
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := tenantscope.Register(db.DB); err != nil {
		log.Fatal("Failed to register tenant scope callback", zap.Error(err))
	}

	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	embeddingRepo := persistence.NewGormEmbeddingRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)

	switch mode {
	case "generate":
		runGenerate(ctx, log, gen,
			generate.NewGenerator(categoryRepo, productRepo, storeRepo, customerRepo, orderRepo, inventoryRepo, log))
	case "embeddings":
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
		runEmbeddings(ctx, log, gen.CatalogPath,
			generate.NewEmbeddingLoader(productRepo, embeddingRepo, index, log))
	case "verify":
		runVerify(ctx, log,
			generate.NewVerifier(storeRepo, categoryRepo, productRepo, customerRepo, orderRepo, inventoryRepo, log))
	case "stats":
		runStats(ctx, log,
			generate.NewStatsCollector(categoryRepo, productRepo, embeddingRepo, storeRepo, customerRepo, orderRepo, inventoryRepo))
	default:
		log.Fatal("Unknown mode", zap.String("mode", mode))
	}
}

func runGenerate(ctx context.Context, log *zap.Logger, gen config.GeneratorConfig, generator *generate.Generator) {
	// Validate both documents before touching the database.
	catalogDoc, err := generate.LoadCatalogDocument(gen.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog document", zap.String("path", gen.CatalogPath), zap.Error(err))
	}
	storesDoc, err := generate.LoadStoresDocument(gen.StoresPath)
	if err != nil {
		log.Fatal("Failed to load stores document", zap.String("path", gen.StoresPath), zap.Error(err))
	}

	log.Info("Generation starting",
		zap.Int("customers", gen.CustomerCount),
		zap.Int("batch_size", gen.BatchSize),
		zap.Int("workers", gen.Workers),
		zap.Int("from_year", gen.FromYear),
		zap.Int("to_year", gen.ToYear),
		zap.Int64("seed", gen.Seed),
	)

	summary, err := generator.Run(ctx, generate.Config{
		CustomerCount: gen.CustomerCount,
		BatchSize:     gen.BatchSize,
		Workers:       gen.Workers,
		MaxRetries:    gen.MaxRetries,
		RetryBackoff:  gen.RetryBackoff,
		FromYear:      gen.FromYear,
		ToYear:        gen.ToYear,
		Seed:          gen.Seed,
	}, catalogDoc, storesDoc)
	if err != nil {
		log.Fatal("Generation failed", zap.Error(err))
	}

	log.Info("Generation finished",
		zap.Int("categories", summary.Categories),
		zap.Int("products", summary.Products),
		zap.Int("stores", summary.Stores),
		zap.Int64("customers", summary.Customers),
		zap.Int64("orders", summary.Orders),
		zap.Int64("order_items", summary.OrderItems),
		zap.Int64("inventory_records", summary.InventoryRecords),
		zap.Duration("duration", summary.Duration),
	)

	if len(summary.FailedBatches) > 0 {
		for _, fb := range summary.FailedBatches {
			log.Error("Batch exhausted retries",
				zap.Int("batch", fb.Job.ID),
				zap.Int("attempts", fb.Attempts),
				zap.Error(fb.Err),
			)
		}
		log.Error("Generation completed with failed batches",
			zap.Int("failed", len(summary.FailedBatches)))
		os.Exit(1)
	}
}

func runEmbeddings(ctx context.Context, log *zap.Logger, catalogPath string, loader *generate.EmbeddingLoader) {
	doc, err := generate.LoadCatalogDocument(catalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog document", zap.String("path", catalogPath), zap.Error(err))
	}

	summary, err := loader.Run(ctx, doc)
	if err != nil {
		log.Fatal("Embedding load failed", zap.Error(err))
	}

	log.Info("Embeddings loaded",
		zap.Int("image_vectors", summary.ImageVectors),
		zap.Int("description_vectors", summary.DescriptionVectors),
		zap.Int("skipped_products", summary.SkippedProducts),
	)
}

func runVerify(ctx context.Context, log *zap.Logger, verifier *generate.Verifier) {
	report, err := verifier.Run(ctx)
	if err != nil {
		log.Fatal("Verification failed to run", zap.Error(err))
	}

	log.Info("Dataset counts",
		zap.Int64("stores", report.Stores),
		zap.Int64("products", report.Products),
		zap.Int64("customers", report.Customers),
		zap.Int64("orders", report.Orders),
		zap.Int64("inventory", report.Inventory),
	)
	for _, c := range report.Checks {
		fmt.Printf("%-40s expected=%.4f actual=%.4f ok=%v %s\n",
			c.Name, c.Expected, c.Actual, c.OK, c.Detail)
	}

	if !report.OK() {
		log.Error("Verification failed", zap.Int("failed_checks", len(report.Failed())))
		os.Exit(1)
	}
	log.Info("Verification passed", zap.Int("checks", len(report.Checks)))
}

func runStats(ctx context.Context, log *zap.Logger, collector *generate.StatsCollector) {
	stats, err := collector.Collect(ctx)
	if err != nil {
		log.Fatal("Stats collection failed", zap.Error(err))
	}

	log.Info("Dataset statistics",
		zap.Int64("categories", stats.Categories),
		zap.Int64("products", stats.Products),
		zap.Int64("stores", stats.Stores),
		zap.Int64("customers", stats.Customers),
		zap.Int64("unassigned_customers", stats.UnassignedCustomers),
		zap.Int64("orders", stats.Orders),
		zap.Int64("inventory", stats.Inventory),
		zap.Int64("image_embeddings", stats.ImageEmbeddings),
		zap.Int64("description_embeddings", stats.DescriptionEmbeddings),
	)
	for _, st := range stats.PerStore {
		fmt.Printf("%-24s tenant=%s customers=%d orders=%d\n",
			st.Name, st.TenantID, st.Customers, st.Orders)
	}
}
