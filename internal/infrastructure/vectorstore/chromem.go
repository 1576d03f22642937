package vectorstore

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var chromemTracer = otel.Tracer("retailsim.vectorstore.chromem")

// collection names per embedding space
const (
	imageCollection       = "product_images"
	descriptionCollection = "product_descriptions"
)

// ChromemConfig holds configuration for the embedded chromem-go index.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means the
	// index lives in memory only and is rebuilt from the database at
	// startup.
	Path string

	// Compress enables gzip compression for persisted data.
	Compress bool
}

// ChromemIndex implements Index using chromem-go, an embeddable pure-Go
// vector database. Both embedding spaces live in one DB as separate
// collections so a vector can never be queried against the wrong
// dimensionality.
type ChromemIndex struct {
	db     *chromem.DB
	config ChromemConfig
	logger *zap.Logger

	mu sync.Mutex // guards collection create/replace
}

// NewChromemIndex creates a ChromemIndex. With an empty path the index
// is in-memory.
func NewChromemIndex(config ChromemConfig, logger *zap.Logger) (*ChromemIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var db *chromem.DB
	if config.Path == "" {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(config.Path, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory %s: %w", config.Path, err)
		}
		var err error
		db, err = chromem.NewPersistentDB(config.Path, config.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating chromem DB: %w", err)
		}
	}

	logger.Info("similarity index initialized",
		zap.String("path", config.Path),
		zap.Bool("persistent", config.Path != ""),
		zap.Bool("compress", config.Compress),
	)

	return &ChromemIndex{db: db, config: config, logger: logger}, nil
}

func collectionName(space catalog.EmbeddingSpace) string {
	if space == catalog.SpaceImage {
		return imageCollection
	}
	return descriptionCollection
}

func (ix *ChromemIndex) collection(space catalog.EmbeddingSpace) (*chromem.Collection, error) {
	return ix.db.GetOrCreateCollection(collectionName(space), nil, nil)
}

// Rebuild replaces the contents of a space with the given embeddings.
func (ix *ChromemIndex) Rebuild(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemIndex.Rebuild")
	defer span.End()
	span.SetAttributes(
		attribute.String("space", string(space)),
		attribute.Int("embeddings", len(embs)),
	)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	name := collectionName(space)
	if err := ix.db.DeleteCollection(name); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("dropping collection %s: %w", name, err)
	}

	if err := ix.add(ctx, space, embs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ix.logger.Info("similarity index rebuilt",
		zap.String("space", string(space)),
		zap.Int("vectors", len(embs)),
	)
	return nil
}

// Add inserts embeddings into a space.
func (ix *ChromemIndex) Add(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemIndex.Add")
	defer span.End()
	span.SetAttributes(
		attribute.String("space", string(space)),
		attribute.Int("embeddings", len(embs)),
	)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.add(ctx, space, embs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (ix *ChromemIndex) add(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	if len(embs) == 0 {
		// Still make sure the collection exists so searches against an
		// empty space succeed with zero results.
		_, err := ix.collection(space)
		return err
	}

	docs := make([]chromem.Document, 0, len(embs))
	for _, emb := range embs {
		if emb.Dim() != space.Dim() {
			return fmt.Errorf("embedding for product %s has dimension %d, space %s requires %d: %w",
				emb.ProductID, emb.Dim(), space, space.Dim(), shared.ErrDimensionMismatch)
		}
		docs = append(docs, chromem.Document{
			ID:        emb.ProductID.String(),
			Embedding: emb.Vector,
		})
	}

	collection, err := ix.collection(space)
	if err != nil {
		return fmt.Errorf("opening collection %s: %w", collectionName(space), err)
	}
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("adding documents to %s: %w", collectionName(space), err)
	}
	return nil
}

// Search returns up to k matches, most similar first, ties broken by
// ascending product ID.
func (ix *ChromemIndex) Search(ctx context.Context, space catalog.EmbeddingSpace, vector []float32, k int) ([]Match, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemIndex.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("space", string(space)),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", shared.ErrInvalidInput, k)
	}
	if len(vector) != space.Dim() {
		span.SetStatus(codes.Error, "dimension mismatch")
		return nil, fmt.Errorf("query vector has dimension %d, space %s requires %d: %w",
			len(vector), space, space.Dim(), shared.ErrDimensionMismatch)
	}

	collection, err := ix.collection(space)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	docCount := collection.Count()
	if docCount == 0 {
		return []Match{}, nil
	}
	if k > docCount {
		k = docCount
	}

	// Fetch every document, not just k. chromem's own top-k selection
	// is unstable under similarity ties, so which tied products it
	// keeps varies between runs; ranking the full set here makes the
	// returned subset a function of the data alone.
	results, err := collection.QueryEmbedding(ctx, vector, docCount, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", collectionName(space), err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		productID, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("index holds non-UUID document ID %q: %w", r.ID, err)
		}
		matches = append(matches, Match{ProductID: productID, Similarity: r.Similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ProductID.String() < matches[j].ProductID.String()
	})
	if len(matches) > k {
		matches = matches[:k]
	}

	span.SetAttributes(attribute.Int("results", len(matches)))
	span.SetStatus(codes.Ok, "")
	return matches, nil
}

// Count returns the number of vectors held in a space.
func (ix *ChromemIndex) Count(space catalog.EmbeddingSpace) int {
	collection, err := ix.collection(space)
	if err != nil {
		return 0
	}
	return collection.Count()
}

// Close is a no-op for chromem; persistence happens on write.
func (ix *ChromemIndex) Close() error {
	return nil
}

var _ Index = (*ChromemIndex)(nil)
