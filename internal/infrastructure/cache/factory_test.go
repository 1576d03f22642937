package cache

import (
	"testing"
	"time"

	"github.com/retailsim/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityCacheFactory_CreateCache(t *testing.T) {
	t.Run("disabled_redis_skips_dialing", func(t *testing.T) {
		// Host points nowhere; with Enabled false the factory must
		// not attempt a connection at all.
		factory := NewSimilarityCacheFactory(config.RedisConfig{
			Enabled: false,
			Host:    "192.0.2.1",
			Port:    6379,
		})

		start := time.Now()
		c, err := factory.CreateCache()
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		assert.IsType(t, &InMemorySimilarityCache{}, c)
		assert.Less(t, time.Since(start), time.Second)
	})
}
