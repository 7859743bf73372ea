package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type entry struct {
	Path string
	Hits int
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[entry]("test", DefaultExpiration, DefaultCleanupInterval, nil)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Set(ctx, "a", entry{Path: "/x"}, 0)
	got, ok := cache.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, entry{Path: "/x"}, got)
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval, nil)

	cache.Set(ctx, "short", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get(ctx, "short")
	assert.False(t, ok)
}

func TestInMemoryCacheManager_DeleteFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[int]("test", DefaultExpiration, DefaultCleanupInterval, nil)

	cache.Set(ctx, "a", 1, 0)
	cache.Set(ctx, "b", 2, 0)
	cache.Set(ctx, "c", 3, 0)

	cache.Delete(ctx, "a", "b")
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
	v, ok := cache.Get(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	cache.Flush(ctx)
	_, ok = cache.Get(ctx, "c")
	assert.False(t, ok)
}

func TestReadThroughCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loadErr := errors.New("boom")

	rt := NewReadThroughCache(
		NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval, nil),
		func(_ context.Context, in string) (string, error) {
			calls++
			if in == "bad" {
				return "", loadErr
			}
			return "loaded:" + in, nil
		},
	)

	v, err := rt.Get(ctx, "k", "x", 0)
	require.NoError(t, err)
	assert.Equal(t, "loaded:x", v)

	v, err = rt.Get(ctx, "k", "ignored", 0)
	require.NoError(t, err)
	assert.Equal(t, "loaded:x", v)
	assert.Equal(t, 1, calls)

	_, err = rt.Get(ctx, "bad", "bad", 0)
	require.ErrorIs(t, err, loadErr)
	_, err = rt.Get(ctx, "bad", "bad", 0)
	require.ErrorIs(t, err, loadErr)
	assert.Equal(t, 3, calls, "errors must not be cached")
}

func TestInMemoryCacheManager_NoCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, NoCleanup, nil)

	cache.Set(ctx, "short", "v", time.Millisecond)
	cache.Set(ctx, "long", "v", 0)
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, cache.Len())
	cache.DeleteExpired(ctx)
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get(ctx, "long")
	assert.True(t, ok)
}
