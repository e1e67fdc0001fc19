package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client, time.Hour)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestRedisCache_SetNX_And_Get(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	ok, err := cache.SetNX(ctx, "k1", domain.Outcome{Success: true, Message: "done"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(cacheKey("k1")))
	assert.Equal(t, time.Hour, mr.TTL(cacheKey("k1")))

	ok, err = cache.SetNX(ctx, "k1", domain.Outcome{Success: false, Message: "other"})
	require.NoError(t, err)
	assert.False(t, ok)

	outcome, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome{Success: true, Message: "done"}, outcome)
}

func TestRedisCache_Get_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Get_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(cacheKey("bad"), "{not json"))

	_, err := cache.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expires(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	_, err := cache.SetNX(ctx, "k1", domain.Outcome{Success: true})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = cache.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_ServerDown(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()

	_, err := cache.Get(context.Background(), "k1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
