// Package cachemanager provides small TTL caches used to avoid repeating
// filesystem lookups and stylesheet loads on every sort.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by string key with a per-entry TTL.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Flush(ctx context.Context)
	DeleteExpired(ctx context.Context)
}
