package models

import "github.com/shopspring/decimal"

// Money is an amount in currency minor units (cents for usd).
type Money int64

func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// MoneyFromDecimal rounds half away from zero to the nearest minor unit.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

// Major renders the amount in major units with two decimals, e.g. 1999 -> "19.99".
func (m Money) Major() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}
