// Package cache provides caching for similarity query results.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
)

// DefaultTTL bounds how long a ranked result stays valid. Embeddings
// only change on regeneration, so staleness is handled by expiry
// rather than invalidation.
const DefaultTTL = 10 * time.Minute

// SimilarityCache stores ranked similarity results keyed by query.
type SimilarityCache interface {
	Get(ctx context.Context, key string) ([]vectorstore.Match, bool, error)
	Set(ctx context.Context, key string, matches []vectorstore.Match, ttl time.Duration) error
	Close() error
}

// QueryKey derives a deterministic cache key from the full query
// identity: tenant, space, k, and a digest of the vector itself.
func QueryKey(tenantID uuid.UUID, space catalog.EmbeddingSpace, vector []float32, k int) string {
	h := sha256.New()
	buf := make([]byte, 4)
	for _, v := range vector {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		h.Write(buf)
	}
	return fmt.Sprintf("similarity:%s:%s:%d:%s", tenantID, space, k, hex.EncodeToString(h.Sum(nil)))
}
