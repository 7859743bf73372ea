package cachemanager

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is how long resolved stylesheet paths and loaded
// contexts stay cached.
const DefaultExpiration = 10 * time.Second

// DefaultCleanupInterval is how often expired entries are purged.
const DefaultCleanupInterval = time.Minute

// NoCleanup disables the background janitor. Owners that cannot stop the
// cache call DeleteExpired themselves.
const NoCleanup time.Duration = 0

// InMemoryCacheManager is a CacheManager backed by go-cache.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
	logger  *slog.Logger
}

// NewInMemoryCacheManager creates a cache. useCase names the cache in logs.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration, logger *slog.Logger) *InMemoryCacheManager[V] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
		logger:  logger,
	}
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		c.logger.ErrorContext(ctx, "wrong type in cache", "cache", c.useCase, "key", key)
		return zero, false
	}

	c.logger.DebugContext(ctx, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache's default expiration.
func (c *InMemoryCacheManager[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes keys from the cache.
func (c *InMemoryCacheManager[V]) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush removes every entry.
func (c *InMemoryCacheManager[V]) Flush(_ context.Context) {
	c.cache.Flush()
}

// DeleteExpired removes expired entries.
func (c *InMemoryCacheManager[V]) DeleteExpired(_ context.Context) {
	c.cache.DeleteExpired()
}

// Len returns the number of stored entries, expired ones included.
func (c *InMemoryCacheManager[V]) Len() int {
	return c.cache.ItemCount()
}
