// Package brfmt renders numbers the way Brazilian Portuguese readers expect:
// comma as decimal separator, period as thousands separator, and "-" for
// missing values.
package brfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/okian/painel/internal/domain/types"
)

// Placeholder is printed wherever a value is missing.
const Placeholder = "-"

var locale = language.BrazilianPortuguese //nolint:gochecknoglobals // fixed display locale

func decimal(v float64, scale int) string {
	return message.NewPrinter(locale).Sprint(number.Decimal(v, number.Scale(scale)))
}

// Int rounds half to even and prints without grouping: 1234.5 -> "1234".
func Int(n types.Num) string {
	v, ok := n.Get()
	if !ok {
		return Placeholder
	}
	return strconv.FormatInt(int64(math.RoundToEven(v)), 10)
}

// Count rounds half to even and prints with grouping: 12345 -> "12.345".
func Count(n types.Num) string {
	v, ok := n.Get()
	if !ok {
		return Placeholder
	}
	return decimal(math.RoundToEven(v), 0)
}

// Money prints two decimals with grouping: 1234.5 -> "1.234,50".
func Money(n types.Num) string {
	v, ok := n.Get()
	if !ok {
		return Placeholder
	}
	return decimal(v, 2)
}

// CompactMoney is Money without a trailing ",00".
func CompactMoney(n types.Num) string {
	return strings.TrimSuffix(Money(n), ",00")
}

// Percent prints a 0..100 value with one decimal: 85 -> "85,0%".
func Percent(v float64) string {
	return decimal(v, 1) + "%"
}

// PercentNum is Percent with the missing-value placeholder.
func PercentNum(n types.Num) string {
	v, ok := n.Get()
	if !ok {
		return Placeholder
	}
	return Percent(v)
}

// Fixed prints v with the given number of decimals and no grouping: (12.345, 2) -> "12,35".
func Fixed(v float64, decimals int) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', decimals, 64), ".", ",", 1)
}
