// Package vectorstore provides the embedded similarity index over
// product embeddings.
package vectorstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
)

// Match is one ranked similarity result.
type Match struct {
	ProductID  uuid.UUID
	Similarity float32
}

// Index abstracts the similarity index. One index holds both embedding
// spaces; a query addresses exactly one of them.
type Index interface {
	// Rebuild replaces the contents of a space with the given
	// embeddings.
	Rebuild(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error

	// Add inserts embeddings into a space.
	Add(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error

	// Search returns up to k matches for the query vector, most similar
	// first. Ties in similarity are broken by ascending product ID so
	// ranking is deterministic. The vector's length must match the
	// space's dimension.
	Search(ctx context.Context, space catalog.EmbeddingSpace, vector []float32, k int) ([]Match, error)

	// Count returns the number of vectors held in a space.
	Count(space catalog.EmbeddingSpace) int

	Close() error
}
