package presentation

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the configured currency code is unknown.
const DefaultCurrency = money.USD

// Formatter renders amounts for display in one currency.
type Formatter struct {
	currency *money.Currency
}

// NewFormatter returns a Formatter for the ISO 4217 code. Unknown codes fall back to USD.
func NewFormatter(code string) Formatter {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	return Formatter{currency: cur}
}

// Currency returns the ISO code in use.
func (f Formatter) Currency() string {
	return f.currency.Code
}

// Money formats v with the currency symbol, grouping and fraction digits,
// e.g. "$1,200.00".
func (f Formatter) Money(v float64) string {
	return f.currency.Formatter().Format(f.minorUnits(v))
}

// SignedMoney is Money with a leading "+" for non-negative amounts.
func (f Formatter) SignedMoney(v float64) string {
	s := f.Money(v)
	if f.minorUnits(v) >= 0 {
		return "+" + s
	}
	return s
}

// Percent formats v with two decimals, e.g. "20.00%".
func (f Formatter) Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// SignedPercent is Percent with a leading "+" for non-negative values.
func (f Formatter) SignedPercent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Quantity formats a holding quantity without trailing zeros.
func (f Formatter) Quantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Round rounds v half away from zero to the currency's fraction digits.
func (f Formatter) Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(int32(f.currency.Fraction)).InexactFloat64()
}

func (f Formatter) minorUnits(v float64) int64 {
	frac := int32(f.currency.Fraction)
	return decimal.NewFromFloat(v).Round(frac).Shift(frac).IntPart()
}
