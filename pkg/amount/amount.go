// Package amount fixes the precision policy for ledger numbers: crypto
// quantities keep 8 fractional digits, fiat amounts keep 2.
package amount

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	CryptoPlaces = 8
	FiatPlaces   = 2
)

// Valid reports whether v can be used as an operation amount.
func Valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func Crypto(v float64) float64 {
	return round(v, CryptoPlaces)
}

func Fiat(v float64) float64 {
	return round(v, FiatPlaces)
}

func round(v float64, places int32) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Percent returns v * pct / 100 computed in decimal to avoid drift on
// common fee rates such as 2.9.
func Percent(v, pct float64) float64 {
	return decimal.NewFromFloat(v).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()
}

// FormatFiat renders v in the given ISO currency, e.g. "$1,234.50".
func FormatFiat(v float64, currency string) string {
	return money.NewFromFloat(v, currency).Display()
}
