package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places every monetary value carries.
const MoneyScale = 2

// IsValidAmount reports whether d is strictly positive and expressible
// at two-decimal fixed-point precision without rounding.
func IsValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(MoneyScale))
}

// FormatMoney renders d with exactly two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
