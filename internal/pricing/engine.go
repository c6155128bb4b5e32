package pricing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/shopspring/decimal"
)

// PromoLookup resolves a promo code to its discount rule. A nil rule with a nil
// error means the code does not exist.
type PromoLookup interface {
	FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
}

type Engine struct {
	taxRate               decimal.Decimal
	shippingFlat          models.Money
	freeShippingThreshold models.Money
	currency              string
	promos                PromoLookup
	now                   func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(cfg config.Pricing, promos PromoLookup, opts ...Option) (*Engine, error) {
	rate, err := cfg.TaxRateDecimal()
	if err != nil {
		return nil, err
	}

	if cfg.ShippingFlat < 0 || cfg.FreeShippingThreshold < 0 {
		return nil, errors.InvalidInputError("Shipping amounts must not be negative")
	}

	e := &Engine{
		taxRate:               rate,
		shippingFlat:          models.Money(cfg.ShippingFlat),
		freeShippingThreshold: models.Money(cfg.FreeShippingThreshold),
		currency:              strings.ToLower(cfg.Currency),
		promos:                promos,
		now:                   time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func (e *Engine) Currency() string {
	return e.currency
}

func (e *Engine) CalculateTax(amount models.Money) (models.Money, error) {
	if err := requireNonNegative("amount", amount); err != nil {
		return 0, err
	}

	return toMoney("tax", amount.Decimal().Mul(e.taxRate))
}

func (e *Engine) CalculateShipping(subtotal models.Money) (models.Money, error) {
	if err := requireNonNegative("subtotal", subtotal); err != nil {
		return 0, err
	}

	if subtotal == 0 {
		return 0, nil
	}

	if e.freeShippingThreshold > 0 && subtotal >= e.freeShippingThreshold {
		return 0, nil
	}

	return e.shippingFlat, nil
}

func (e *Engine) lookup(ctx context.Context, code string) (*models.PromoCode, error) {
	if code == "" || e.promos == nil {
		return nil, errors.PromoCodeInvalidError("Promo code not found")
	}

	promo, err := e.promos.FindPromoCode(ctx, code)
	if err != nil {
		return nil, errors.PromoCodeInvalidError("Promo code could not be verified").WithError(err)
	}

	if promo == nil {
		return nil, errors.PromoCodeInvalidError("Promo code not found")
	}

	if !promo.RedeemableAt(e.now()) {
		return nil, errors.PromoCodeInvalidError("Promo code has expired")
	}

	return promo, nil
}

// IsValidPromoCode never fails; lookup errors count as invalid.
func (e *Engine) IsValidPromoCode(ctx context.Context, code string) bool {
	_, err := e.lookup(ctx, code)

	return err == nil
}

// GetDiscountAmount returns 0 and a PROMO_CODE_INVALID error for unknown or expired codes.
func (e *Engine) GetDiscountAmount(ctx context.Context, code string, subtotal models.Money) (models.Money, error) {
	if err := requireNonNegative("subtotal", subtotal); err != nil {
		return 0, err
	}

	promo, err := e.lookup(ctx, code)
	if err != nil {
		return 0, err
	}

	return DiscountFor(promo, subtotal)
}

// Quote computes the full breakdown. A rejected promo code is reported in
// PromoError and never fails the quote.
func (e *Engine) Quote(ctx context.Context, items []models.LineItem, promoCode string) (*models.Quote, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	gross, err := CalculateSubtotal(items)
	if err != nil {
		return nil, err
	}

	var subtotal models.Money
	for _, item := range items {
		price, err := CalculateItemPrice(item)
		if err != nil {
			return nil, err
		}

		if subtotal, err = addMoney("subtotal", subtotal, price); err != nil {
			return nil, err
		}
	}

	quote := &models.Quote{
		Gross:               gross,
		SubscriptionSavings: gross - subtotal,
		Subtotal:            subtotal,
		Currency:            e.currency,
	}

	if promoCode != "" {
		discount, err := e.GetDiscountAmount(ctx, promoCode, subtotal)
		switch {
		case err == nil:
			quote.Discount = discount
			quote.PromoCode = promoCode
		case errors.HasCode(err, errors.ErrCodePromoCodeInvalid):
			slog.Debug("Promo code rejected", slog.String("code", promoCode), slog.String("error", err.Error()))
			quote.PromoError = err.Error()
		default:
			return nil, err
		}
	}

	if quote.Tax, err = e.CalculateTax(max(0, subtotal-quote.Discount)); err != nil {
		return nil, err
	}

	if quote.Shipping, err = e.CalculateShipping(subtotal); err != nil {
		return nil, err
	}

	if quote.Total, err = CalculateTotal(subtotal, quote.Tax, quote.Shipping, quote.Discount); err != nil {
		return nil, err
	}

	return quote, nil
}
