package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
	"go.uber.org/zap"
)

// RedisConfig holds the connection settings for the Redis cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSimilarityCache implements SimilarityCache using Redis
type RedisSimilarityCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSimilarityCache creates a Redis-backed cache and verifies the
// connection before returning.
func NewRedisSimilarityCache(cfg RedisConfig, logger *zap.Logger) (*RedisSimilarityCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSimilarityCache{client: client, logger: logger}, nil
}

// Get returns the cached matches for a key, if present
func (c *RedisSimilarityCache) Get(ctx context.Context, key string) ([]vectorstore.Match, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}

	var matches []vectorstore.Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		// A corrupt entry is dropped, not surfaced to the caller.
		c.logger.Warn("dropping corrupt similarity cache entry",
			zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}
	return matches, true, nil
}

// Set stores matches under a key with the given TTL
func (c *RedisSimilarityCache) Set(ctx context.Context, key string, matches []vectorstore.Match, ttl time.Duration) error {
	raw, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encoding matches: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Close closes the underlying Redis client
func (c *RedisSimilarityCache) Close() error {
	return c.client.Close()
}

var _ SimilarityCache = (*RedisSimilarityCache)(nil)
