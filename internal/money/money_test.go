package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat_RoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int32
		want     string
	}{
		{"half_up_positive", "0.005", 2, "0.01"},
		{"half_up_negative", "-0.005", 2, "-0.01"},
		{"half_up_quarter", "0.025", 2, "0.03"},
		{"half_up_negative_quarter", "-0.025", 2, "-0.03"},
		{"no_rounding_needed", "1.23", 2, "1.23"},
		{"pad_zeroes", "5", 2, "5.00"},
		{"truncating_down", "0.004", 2, "0.00"},
		{"large_value", "123456.789", 2, "123456.79"},
		{"six_decimals", "0.0000005", 6, "0.000001"},
		{"zero_decimals", "2.5", 0, "3"},
		{"negative_zero_decimals", "-2.5", 0, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			if got := Format(d, tt.decimals); got != tt.want {
				t.Errorf("Format(%s, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
			// String input must behave identically to decimal input.
			if got := Format(tt.value, tt.decimals); got != tt.want {
				t.Errorf("Format(%q, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatMoney_NeverFails(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "0.000000"},
		{"empty_string", "", "0.000000"},
		{"garbage", "abc", "0.000000"},
		{"currency_prefix", "$100", "0.000000"},
		{"nan", math.NaN(), "0.000000"},
		{"pos_inf", math.Inf(1), "0.000000"},
		{"neg_inf", math.Inf(-1), "0.000000"},
		{"bool_true", true, "1.000000"},
		{"bool_false", false, "0.000000"},
		{"int", 42, "42.000000"},
		{"int64", int64(-7), "-7.000000"},
		{"uint64", uint64(9), "9.000000"},
		{"float", 1.5, "1.500000"},
		{"whitespace", "   ", "0.000000"},
		{"unsupported_type", struct{}{}, "0.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(tt.value); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatHelpers_FixedPrecision(t *testing.T) {
	d := decimal.RequireFromString("12.34567")

	if got := FormatMoneyShort(d); got != "12.35" {
		t.Errorf("FormatMoneyShort = %q, want %q", got, "12.35")
	}
	if got := FormatBps(d); got != "12.35" {
		t.Errorf("FormatBps = %q, want %q", got, "12.35")
	}
	if got := FormatPct(d); got != "12.3457" {
		t.Errorf("FormatPct = %q, want %q", got, "12.3457")
	}
}

func TestBpsConversion_RoundTrip(t *testing.T) {
	tests := []string{"0", "1", "100", "10000", "0.5", "-250"}

	for _, s := range tests {
		bps := decimal.RequireFromString(s)
		back := FractionToBps(BpsToFraction(bps))
		if !back.Equal(bps) {
			t.Errorf("round trip of %s bps = %s", s, back)
		}
	}

	// 100 bps is exactly 1%.
	if frac := BpsToFraction(decimal.NewFromInt(100)); !frac.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("BpsToFraction(100) = %s, want 0.01", frac)
	}
}

func TestRoundBps(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"19.4", 19},
		{"19.5", 20},
		{"-19.5", -20},
		{"0", 0},
		{"10000.49", 10000},
	}

	for _, tt := range tests {
		d := decimal.RequireFromString(tt.value)
		if got := RoundBps(d); got != tt.want {
			t.Errorf("RoundBps(%s) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func BenchmarkFormatMoney(b *testing.B) {
	d := decimal.RequireFromString("12345.678901")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FormatMoney(d)
	}
}
