// Package similarity ranks catalog products against a query vector in
// one of the two embedding spaces.
package similarity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/domain/sales"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"github.com/retailsim/backend/internal/infrastructure/cache"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"go.uber.org/zap"
)

// DefaultK is the result count when the request leaves it unset.
const DefaultK = 10

// SearchRequest is one similarity query. The embedding space is
// derived from the vector's length, never stated explicitly.
type SearchRequest struct {
	Vector      []float32
	K           int
	InStockOnly bool
}

// SimilarMatch is one ranked result. Distance is the cosine distance,
// so smaller means more similar.
type SimilarMatch struct {
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Distance   float64   `json:"distance"`
	StockLevel *int      `json:"stock_level,omitempty"`
}

// SimilarityService executes similarity queries against the vector
// index and enriches the matches from the catalog. Results are cached
// per full query identity including the caller's tenant.
type SimilarityService struct {
	productRepo   catalog.ProductRepository
	inventoryRepo sales.InventoryRepository
	index         vectorstore.Index
	cache         cache.SimilarityCache
	cacheTTL      time.Duration
	log           *zap.Logger
}

// Option configures a SimilarityService.
type Option func(*SimilarityService)

// WithCacheTTL overrides how long ranked results stay cached. A
// non-positive value keeps the cache default.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *SimilarityService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewSimilarityService creates a new SimilarityService
func NewSimilarityService(
	productRepo catalog.ProductRepository,
	inventoryRepo sales.InventoryRepository,
	index vectorstore.Index,
	resultCache cache.SimilarityCache,
	log *zap.Logger,
	opts ...Option,
) *SimilarityService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SimilarityService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		index:         index,
		cache:         resultCache,
		cacheTTL:      cache.DefaultTTL,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search ranks products against the query vector. An empty result is a
// valid answer; a vector whose length matches no embedding space is a
// request error.
func (s *SimilarityService) Search(ctx context.Context, req SearchRequest) ([]SimilarMatch, error) {
	if len(req.Vector) == 0 {
		return nil, shared.NewDomainError("EMPTY_VECTOR", "query vector cannot be empty")
	}
	space, err := catalog.SpaceForDim(len(req.Vector))
	if err != nil {
		return nil, err
	}
	if req.K <= 0 {
		req.K = DefaultK
	}

	matches, err := s.rankedMatches(ctx, space, req)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []SimilarMatch{}, nil
	}

	results, err := s.enrich(ctx, matches, req.InStockOnly)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// rankedMatches serves the raw ranking from the cache when possible.
func (s *SimilarityService) rankedMatches(ctx context.Context, space catalog.EmbeddingSpace, req SearchRequest) ([]vectorstore.Match, error) {
	tc, _ := tenant.FromContext(ctx)
	key := cache.QueryKey(tc.TenantID, space, req.Vector, req.K)

	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			return cached, nil
		} else if err != nil {
			s.log.Warn("similarity cache read failed", zap.Error(err))
		}
	}

	matches, err := s.index.Search(ctx, space, req.Vector, req.K)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, matches, s.cacheTTL); err != nil {
			s.log.Warn("similarity cache write failed", zap.Error(err))
		}
	}
	return matches, nil
}

// enrich resolves product details and optionally composes the
// tenant-scoped stock view over the ranking.
func (s *SimilarityService) enrich(ctx context.Context, matches []vectorstore.Match, inStockOnly bool) ([]SimilarMatch, error) {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var stock map[uuid.UUID]int
	if inStockOnly {
		records, err := s.inventoryRepo.FindByProducts(ctx, ids)
		if err != nil {
			return nil, err
		}
		stock = make(map[uuid.UUID]int, len(records))
		for _, r := range records {
			stock[r.ProductID] += r.StockLevel
		}
	}

	results := make([]SimilarMatch, 0, len(matches))
	for _, m := range matches {
		product, ok := byID[m.ProductID]
		if !ok {
			// embedding without a product row, stale index contents
			continue
		}

		result := SimilarMatch{
			ProductID: m.ProductID,
			SKU:       product.SKU,
			Name:      product.Name,
			Distance:  1 - float64(m.Similarity),
		}
		if inStockOnly {
			level, held := stock[m.ProductID]
			if !held || level <= 0 {
				continue
			}
			result.StockLevel = &level
		}
		results = append(results, result)
	}
	return results, nil
}
