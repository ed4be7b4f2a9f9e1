package revenue

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₹"

// FormatAmount renders v with two decimals and thousands separators.
func FormatAmount(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + currencySymbol + b.String() + "." + frac
}
