package cache

import (
	"fmt"

	"github.com/retailsim/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SimilarityCacheFactory creates similarity caches based on configuration
type SimilarityCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SimilarityCacheFactoryOption is a functional option for configuring the factory
type SimilarityCacheFactoryOption func(*SimilarityCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SimilarityCacheFactoryOption {
	return func(f *SimilarityCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SimilarityCacheFactoryOption {
	return func(f *SimilarityCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSimilarityCacheFactory creates a new factory
func NewSimilarityCacheFactory(cfg config.RedisConfig, opts ...SimilarityCacheFactoryOption) *SimilarityCacheFactory {
	f := &SimilarityCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache tries Redis first and falls back to in-memory when
// allowed. With Redis disabled in configuration it returns the
// in-memory cache without dialing.
func (f *SimilarityCacheFactory) CreateCache() (SimilarityCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory similarity cache")
		return NewInMemorySimilarityCache(), nil
	}

	cache, err := NewRedisSimilarityCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.logger)
	if err == nil {
		f.logger.Info("using Redis similarity cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for similarity cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory similarity cache",
		zap.Error(err))
	return NewInMemorySimilarityCache(), nil
}
