package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/shopspring/decimal"
)

type PromoCodeRepository interface {
	GetPromoCodeByCode(ctx context.Context, code string) (*models.PromoCode, error)
}

type promoCodeRepository struct {
	DB *sql.DB
}

func NewPromoCodeRepo(db *sql.DB) PromoCodeRepository {
	return &promoCodeRepository{DB: db}
}

// GetPromoCodeByCode returns sql.ErrNoRows when the code does not exist.
func (r *promoCodeRepository) GetPromoCodeByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT code, kind, amount_off, percent_off, valid_from, valid_until, active, created_at, updated_at
		FROM promo_codes
		WHERE code = $1
	`

	promo := &models.PromoCode{}

	var percentOff decimal.NullDecimal
	var validFrom, validUntil sql.NullTime

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(&promo.Code, &promo.Kind, &promo.AmountOff, &percentOff, &validFrom, &validUntil, &promo.Active, &promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the promo code: %w", err)
	}

	if percentOff.Valid {
		promo.PercentOff = percentOff.Decimal
	}

	if validFrom.Valid {
		promo.ValidFrom = &validFrom.Time
	}

	if validUntil.Valid {
		promo.ValidUntil = &validUntil.Time
	}

	return promo, nil
}
