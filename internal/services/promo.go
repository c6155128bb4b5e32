package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
)

// negativeTTL is how long an unknown code is remembered.
const negativeTTL = time.Minute

// PromoCodeService is the read-through promo lookup used by the pricing engine.
type PromoCodeService interface {
	FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
}

type promoCodeService struct {
	repo  repository.PromoCodeRepository
	cache cache.Cache
	now   func() time.Time
}

func NewPromoCodeService(repo repository.PromoCodeRepository, cache cache.Cache) PromoCodeService {
	return &promoCodeService{repo: repo, cache: cache, now: time.Now}
}

// FindPromoCode returns nil, nil for unknown codes. A cached code that is no longer
// redeemable is evicted and read again from the database.
func (s *promoCodeService) FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	logger := middleware.LoggerFromContext(ctx)
	code = strings.ToUpper(strings.TrimSpace(code))

	if s.cache == nil {
		return s.load(ctx, code)
	}

	var promo models.PromoCode

	found, err := s.cache.Get(ctx, cache.Key(cache.PromoKeyPrefix, code), &promo)
	switch {
	case err != nil:
		metrics.ObservePromoLookup("cache", "error")
		logger.Warn("Promo cache read failed", slog.String("code", code), slog.String("error", err.Error()))
	case found && promo.RedeemableAt(s.now()):
		metrics.ObservePromoLookup("cache", "hit")
		return &promo, nil
	case found:
		metrics.ObservePromoLookup("cache", "stale")
		s.forget(ctx, code)
		return s.load(ctx, code)
	}

	var missing bool
	if found, err := s.cache.Get(ctx, cache.Key(cache.PromoMissKeyPrefix, code), &missing); err == nil && found {
		metrics.ObservePromoLookup("cache", "miss")
		return nil, nil
	}

	return s.load(ctx, code)
}

func (s *promoCodeService) load(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := s.repo.GetPromoCodeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.ObservePromoLookup("db", "miss")
			s.remember(ctx, cache.Key(cache.PromoMissKeyPrefix, code), true, negativeTTL)
			return nil, nil
		}

		metrics.ObservePromoLookup("db", "error")
		middleware.LoggerFromContext(ctx).Error("Promo lookup failed", slog.String("code", code), slog.String("error", err.Error()))

		return nil, appErrors.DatabaseError("Failed to look up promo code").WithError(err)
	}

	metrics.ObservePromoLookup("db", "hit")

	ttl := time.Duration(0)
	if !promo.RedeemableAt(s.now()) {
		ttl = negativeTTL
	}
	s.remember(ctx, cache.Key(cache.PromoKeyPrefix, code), promo, ttl)

	return promo, nil
}

func (s *promoCodeService) forget(ctx context.Context, code string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.PromoKeyPrefix, code)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Promo cache evict failed", slog.String("code", code), slog.String("error", err.Error()))
	}
}

func (s *promoCodeService) remember(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Promo cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
