package generate

import (
	"context"
	"fmt"

	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"go.uber.org/zap"
)

// EmbeddingLoader replaces the persisted embeddings and the similarity
// index contents from a catalog document. Products without vectors in
// the document are skipped; they stay queryable, just never returned
// as matches.
type EmbeddingLoader struct {
	products   catalog.ProductRepository
	embeddings catalog.EmbeddingRepository
	index      vectorstore.Index
	log        *zap.Logger
}

// NewEmbeddingLoader wires an embedding loader.
func NewEmbeddingLoader(
	products catalog.ProductRepository,
	embeddings catalog.EmbeddingRepository,
	index vectorstore.Index,
	log *zap.Logger,
) *EmbeddingLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmbeddingLoader{products: products, embeddings: embeddings, index: index, log: log}
}

// EmbeddingSummary reports what a load pass wrote per space.
type EmbeddingSummary struct {
	ImageVectors       int
	DescriptionVectors int
	SkippedProducts    int
}

// Run loads the document's vectors for products already present in the
// database, matched by SKU. The previous contents of both spaces are
// replaced.
func (l *EmbeddingLoader) Run(ctx context.Context, doc *CatalogDocument) (*EmbeddingSummary, error) {
	ctx = tenant.WithContext(ctx, tenant.Sentinel())

	var (
		imageEmbs []catalog.Embedding
		descEmbs  []catalog.Embedding
		skipped   int
	)

	for _, cat := range doc.Categories {
		for _, pt := range cat.Types {
			for _, pDoc := range pt.Products {
				if len(pDoc.ImageEmbedding) == 0 && len(pDoc.DescriptionEmbedding) == 0 {
					skipped++
					continue
				}

				product, err := l.products.FindBySKU(ctx, pDoc.SKU)
				if err != nil {
					return nil, fmt.Errorf("resolving SKU %q: %w", pDoc.SKU, err)
				}

				if len(pDoc.ImageEmbedding) > 0 {
					imageEmbs = append(imageEmbs, catalog.Embedding{
						ProductID: product.ID,
						Vector:    pDoc.ImageEmbedding,
					})
				}
				if len(pDoc.DescriptionEmbedding) > 0 {
					descEmbs = append(descEmbs, catalog.Embedding{
						ProductID: product.ID,
						Vector:    pDoc.DescriptionEmbedding,
					})
				}
			}
		}
	}

	if err := l.replace(ctx, catalog.SpaceImage, imageEmbs); err != nil {
		return nil, err
	}
	if err := l.replace(ctx, catalog.SpaceDescription, descEmbs); err != nil {
		return nil, err
	}

	l.log.Info("embeddings loaded",
		zap.Int("image_vectors", len(imageEmbs)),
		zap.Int("description_vectors", len(descEmbs)),
		zap.Int("skipped_products", skipped))

	return &EmbeddingSummary{
		ImageVectors:       len(imageEmbs),
		DescriptionVectors: len(descEmbs),
		SkippedProducts:    skipped,
	}, nil
}

func (l *EmbeddingLoader) replace(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	if err := l.embeddings.DeleteAll(ctx, space); err != nil {
		return fmt.Errorf("clearing %s embeddings: %w", space, err)
	}
	if len(embs) > 0 {
		if err := l.embeddings.SaveBatch(ctx, space, embs); err != nil {
			return fmt.Errorf("saving %s embeddings: %w", space, err)
		}
	}
	if l.index != nil {
		if err := l.index.Rebuild(ctx, space, embs); err != nil {
			return fmt.Errorf("rebuilding %s index: %w", space, err)
		}
	}
	return nil
}

// RebuildIndex refreshes the similarity index from the persisted
// embeddings without touching the database, for server startup.
func (l *EmbeddingLoader) RebuildIndex(ctx context.Context) error {
	if l.index == nil {
		return nil
	}
	ctx = tenant.WithContext(ctx, tenant.Sentinel())

	for _, space := range []catalog.EmbeddingSpace{catalog.SpaceImage, catalog.SpaceDescription} {
		embs, err := l.embeddings.FindAll(ctx, space)
		if err != nil {
			return fmt.Errorf("loading %s embeddings: %w", space, err)
		}
		if err := l.index.Rebuild(ctx, space, embs); err != nil {
			return fmt.Errorf("rebuilding %s index: %w", space, err)
		}
		l.log.Info("similarity index rebuilt",
			zap.String("space", string(space)),
			zap.Int("vectors", len(embs)))
	}
	return nil
}
