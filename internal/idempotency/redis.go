package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisCache) Get(ctx context.Context, key string) (domain.Outcome, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Outcome{}, ErrCacheMiss
	}
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("redis get failed: %w", err)
	}

	var outcome domain.Outcome
	if err2 := json.Unmarshal(data, &outcome); err2 != nil {
		return domain.Outcome{}, fmt.Errorf("unmarshal outcome failed: %w", err2)
	}
	return outcome, nil
}

func (r RedisCache) SetNX(ctx context.Context, key string, outcome domain.Outcome) (bool, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return false, fmt.Errorf("marshal outcome failed: %w", err)
	}

	ok, err := r.client.SetNX(ctx, cacheKey(key), data, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("checkout:idempotency:%s", key)
}
