package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySimilarityCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss_on_unknown_key", func(t *testing.T) {
		c := NewInMemorySimilarityCache()
		_, found, err := c.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round_trip", func(t *testing.T) {
		c := NewInMemorySimilarityCache()
		matches := []vectorstore.Match{{ProductID: uuid.New(), Similarity: 0.9}}
		require.NoError(t, c.Set(ctx, "k1", matches, time.Minute))

		got, found, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, matches, got)
	})

	t.Run("expired_entry_is_a_miss", func(t *testing.T) {
		c := NewInMemorySimilarityCache()
		require.NoError(t, c.Set(ctx, "k1", nil, time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, found, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("returned_slice_is_a_copy", func(t *testing.T) {
		c := NewInMemorySimilarityCache()
		id := uuid.New()
		require.NoError(t, c.Set(ctx, "k1", []vectorstore.Match{{ProductID: id, Similarity: 0.5}}, time.Minute))

		got, _, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		got[0].Similarity = 0

		again, _, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, again[0].Similarity, 1e-9)
	})
}

func TestQueryKey(t *testing.T) {
	tenantID := uuid.New()
	vec := []float32{1, 2, 3}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t,
			QueryKey(tenantID, catalog.SpaceImage, vec, 5),
			QueryKey(tenantID, catalog.SpaceImage, vec, 5))
	})

	t.Run("varies_with_inputs", func(t *testing.T) {
		base := QueryKey(tenantID, catalog.SpaceImage, vec, 5)
		assert.NotEqual(t, base, QueryKey(uuid.New(), catalog.SpaceImage, vec, 5))
		assert.NotEqual(t, base, QueryKey(tenantID, catalog.SpaceDescription, vec, 5))
		assert.NotEqual(t, base, QueryKey(tenantID, catalog.SpaceImage, vec, 6))
		assert.NotEqual(t, base, QueryKey(tenantID, catalog.SpaceImage, []float32{1, 2, 4}, 5))
	})
}
