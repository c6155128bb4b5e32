package cache

import (
	"context"
	"time"
)

// Cache stores JSON values under keys scoped to the configured namespace.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	PromoKeyPrefix = "promo"
	// PromoMissKeyPrefix marks codes known not to exist.
	PromoMissKeyPrefix = "promo_miss"
)
