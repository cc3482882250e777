package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FormatCents renders a cent amount as a 2-decimal dollar string ("11.00").
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}

// CentsToDollars converts a cent amount to a dollar float for JSON number
// fields that predate the cent representation.
func CentsToDollars(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(hundred).Float64()
	return f
}

// DollarsToCents converts a dollar amount (as submitted on the wire) to cents,
// rounding to the nearest cent.
func DollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(hundred).Round(0).IntPart()
}
