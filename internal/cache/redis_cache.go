package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{
		client:    client,
		namespace: strings.TrimSuffix(cfg.Namespace, ":"),
		ttl:       cfg.DefaultTTL,
	}
}

func (r *redisCache) scoped(key string) string {
	if r.namespace == "" {
		return key
	}

	return r.namespace + ":" + key
}

// Get decodes the entry into value. An entry that no longer decodes is evicted.
func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	key = r.scoped(key)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			return false, fmt.Errorf("cache decode %s: %w", key, errors.Join(err, delErr))
		}

		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	return true, nil
}

// Set falls back to the configured TTL when ttl is not positive.
func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	key = r.scoped(key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	scoped := make([]string, len(keys))
	for i, key := range keys {
		scoped[i] = r.scoped(key)
	}

	if err := r.client.Del(ctx, scoped...).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", strings.Join(scoped, ","), err)
	}

	return nil
}
