// Package money provides exact decimal formatting and basis-point
// conversion for monetary values. All rounding in the scanner funnels
// through here so PnL aggregation stays auditable.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the precision used for numeraire amounts in reports.
const DefaultDecimals = 6

var bpsPerUnit = decimal.NewFromInt(10000)

// Format renders any supported value as a fixed-decimal string using
// round-half-away-from-zero. It never fails: nil, empty and unparsable
// inputs all yield the zero string for the requested precision. Floats are
// accepted for legacy callers but lose the exactness guarantee.
func Format(v any, decimals int32) string {
	d, ok := toDecimal(v)
	if !ok {
		return zeroString(decimals)
	}
	return d.StringFixed(decimals)
}

// FormatMoney renders a numeraire amount at the default report precision.
func FormatMoney(v any) string {
	return Format(v, DefaultDecimals)
}

// FormatMoneyShort renders a display amount at 2 decimal places.
func FormatMoneyShort(v any) string {
	return Format(v, 2)
}

// FormatBps renders a basis-point quantity at 2 decimal places.
func FormatBps(v any) string {
	return Format(v, 2)
}

// FormatPct renders a percentage at 4 decimal places.
func FormatPct(v any) string {
	return Format(v, 4)
}

// BpsToFraction converts basis points to a decimal fraction (100 bps -> 0.01).
func BpsToFraction(bps decimal.Decimal) decimal.Decimal {
	return bps.Div(bpsPerUnit)
}

// FractionToBps converts a decimal fraction to basis points (0.01 -> 100).
func FractionToBps(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(bpsPerUnit)
}

// RoundBps rounds a basis-point quantity to a whole number of bps using
// round-half-away-from-zero.
func RoundBps(bps decimal.Decimal) int64 {
	return bps.Round(0).IntPart()
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint64:
		return decimal.NewFromUint64(x), true
	case bool:
		if x {
			return decimal.NewFromInt(1), true
		}
		return decimal.NewFromInt(0), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	default:
		return decimal.Decimal{}, false
	}
}

func zeroString(decimals int32) string {
	if decimals <= 0 {
		return "0"
	}
	var sb strings.Builder
	sb.WriteString("0.")
	for i := int32(0); i < decimals; i++ {
		sb.WriteByte('0')
	}
	return sb.String()
}
