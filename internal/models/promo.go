package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoKind string

const (
	PromoKindFixed      PromoKind = "fixed"
	PromoKindPercentage PromoKind = "percentage"
)

type PromoCode struct {
	Code       string          `json:"code"`
	Kind       PromoKind       `json:"kind"`
	AmountOff  Money           `json:"amount_off"`
	PercentOff decimal.Decimal `json:"percent_off"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RedeemableAt reports whether the code is active and inside its validity window.
func (p *PromoCode) RedeemableAt(now time.Time) bool {
	if !p.Active {
		return false
	}

	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}

	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}

	return true
}

type ApplyPromoRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}
