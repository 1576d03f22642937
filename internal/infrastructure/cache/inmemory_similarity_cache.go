package cache

import (
	"context"
	"sync"
	"time"

	"github.com/retailsim/backend/internal/infrastructure/vectorstore"
)

// InMemorySimilarityCache implements SimilarityCache with a local map.
// Suitable for single-instance deployments and testing.
type InMemorySimilarityCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	matches   []vectorstore.Match
	expiresAt time.Time
}

// NewInMemorySimilarityCache creates an empty in-memory cache
func NewInMemorySimilarityCache() *InMemorySimilarityCache {
	return &InMemorySimilarityCache{entries: make(map[string]inMemoryEntry)}
}

// Get returns the cached matches for a key, if present and unexpired
func (c *InMemorySimilarityCache) Get(_ context.Context, key string) ([]vectorstore.Match, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	matches := make([]vectorstore.Match, len(entry.matches))
	copy(matches, entry.matches)
	return matches, true, nil
}

// Set stores matches under a key with the given TTL
func (c *InMemorySimilarityCache) Set(_ context.Context, key string, matches []vectorstore.Match, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	stored := make([]vectorstore.Match, len(matches))
	copy(stored, matches)

	c.mu.Lock()
	c.entries[key] = inMemoryEntry{matches: stored, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Close clears the cache
func (c *InMemorySimilarityCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]inMemoryEntry)
	c.mu.Unlock()
	return nil
}

var _ SimilarityCache = (*InMemorySimilarityCache)(nil)
