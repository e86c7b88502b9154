// Package valueobject contains domain value objects for the SpendWise system.
package valueobject

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes the single currency amounts are recorded in.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// NGN is the currency every profile and amount uses.
var NGN = Currency{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"}

// FormatAmount renders v as "₦1,234.50". NaN and infinities render as "₦0.00".
func (c Currency) FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + c.Symbol + groupThousands(intPart) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Percent returns part/whole*100 rounded to one decimal place, e.g. "66.7".
// A zero whole yields "0.0".
func Percent(part, whole float64) string {
	if whole == 0 {
		return "0.0"
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		StringFixed(1)
}
