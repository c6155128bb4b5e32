package pricing

import (
	"math"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMoney = decimal.NewFromInt(math.MaxInt64)
)

func requireNonNegative(field string, amount models.Money) error {
	if amount < 0 {
		return errors.InvalidInputError("Amount must not be negative").WithDetail(field)
	}

	return nil
}

func overflowError(field string) *errors.AppError {
	return errors.InvalidInputError("Amount is too large").WithDetail(field)
}

// addMoney adds two non-negative amounts.
func addMoney(field string, a, b models.Money) (models.Money, error) {
	if b > math.MaxInt64-a {
		return 0, overflowError(field)
	}

	return a + b, nil
}

// mulMoney multiplies a non-negative price by a positive quantity.
func mulMoney(field string, price models.Money, quantity int) (models.Money, error) {
	if quantity > 0 && price > math.MaxInt64/models.Money(quantity) {
		return 0, overflowError(field)
	}

	return price * models.Money(quantity), nil
}

// toMoney rounds d to minor units and rejects values outside [0, MaxInt64].
func toMoney(field string, d decimal.Decimal) (models.Money, error) {
	rounded := d.Round(0)
	if rounded.GreaterThan(maxMoney) {
		return 0, overflowError(field)
	}

	if rounded.IsNegative() {
		return 0, errors.InvalidInputError("Amount must not be negative").WithDetail(field)
	}

	return models.MoneyFromDecimal(rounded), nil
}

// CalculateSubtotal sums unitPrice*quantity over items, ignoring subscription discounts.
func CalculateSubtotal(items []models.LineItem) (models.Money, error) {
	var subtotal models.Money

	for _, item := range items {
		if err := ValidateItem(item); err != nil {
			return 0, err
		}

		gross, err := mulMoney(item.ID, item.UnitPrice, item.Quantity)
		if err != nil {
			return 0, err
		}

		if subtotal, err = addMoney("subtotal", subtotal, gross); err != nil {
			return 0, err
		}
	}

	return subtotal, nil
}

// CalculateItemPrice is the item's contribution after its own subscription discount.
func CalculateItemPrice(item models.LineItem) (models.Money, error) {
	if err := ValidateItem(item); err != nil {
		return 0, err
	}

	gross, err := mulMoney(item.ID, item.UnitPrice, item.Quantity)
	if err != nil {
		return 0, err
	}

	pct, _ := item.SubscriptionFrequency.DiscountPercent()
	if pct == 0 {
		return gross, nil
	}

	factor := hundred.Sub(decimal.NewFromInt(pct)).Div(hundred)

	return toMoney(item.ID, gross.Decimal().Mul(factor))
}

// CalculateTotal applies the discount to the subtotal first, then adds tax and untaxed shipping.
func CalculateTotal(subtotal, tax, shipping, discount models.Money) (models.Money, error) {
	amounts := []struct {
		field  string
		amount models.Money
	}{{"subtotal", subtotal}, {"tax", tax}, {"shipping", shipping}, {"discount", discount}}

	for _, a := range amounts {
		if err := requireNonNegative(a.field, a.amount); err != nil {
			return 0, err
		}
	}

	total, err := addMoney("total", max(0, subtotal-discount), tax)
	if err != nil {
		return 0, err
	}

	return addMoney("total", total, shipping)
}

// DiscountFor computes the promo discount on subtotal, capped at subtotal.
func DiscountFor(promo *models.PromoCode, subtotal models.Money) (models.Money, error) {
	if err := requireNonNegative("subtotal", subtotal); err != nil {
		return 0, err
	}

	var discount models.Money

	switch promo.Kind {
	case models.PromoKindFixed:
		discount = promo.AmountOff
	case models.PromoKindPercentage:
		off := subtotal.Decimal().Mul(promo.PercentOff).Div(hundred).Round(0)
		switch {
		case off.IsNegative():
			return 0, nil
		case off.GreaterThan(subtotal.Decimal()):
			return subtotal, nil
		}
		discount = models.MoneyFromDecimal(off)
	default:
		return 0, errors.InvalidInputError("Unknown promo code kind").WithDetail(string(promo.Kind))
	}

	return min(max(discount, 0), subtotal), nil
}
