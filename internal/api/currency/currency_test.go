package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertUSDToINR(t *testing.T) {
	tests := []struct {
		name string
		usd  float64
		want float64
	}{
		{"zero", 0, 0},
		{"one dollar", 1, 83},
		{"hundred dollars", 100, 8313},
		{"three hundred", 300, 24939},
		{"fractional rounds to whole rupee", 1.5, 125}, // 124.695 -> 125
		{"rounds down", 0.01, 1},                       // 0.8313 -> 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertUSDToINR(tt.usd))
		})
	}
}

func TestConvertUSDToINR_AlwaysWholeRupees(t *testing.T) {
	for _, usd := range []float64{0.1, 1.23, 99.99, 300, 12345.67} {
		got := ConvertUSDToINR(usd)
		assert.Equal(t, float64(int64(got)), got, "ConvertUSDToINR(%v) = %v is not whole", usd, got)
	}
}

func TestConvertUSDToINR_RoundTripTolerance(t *testing.T) {
	// Dividing back by the rate recovers the original within the
	// half-rupee the whole-unit rounding can introduce.
	for _, usd := range []float64{1, 47.5, 300, 900, 10000} {
		back := ConvertUSDToINR(usd) / USDToINRRate
		assert.InDelta(t, usd, back, 0.5/USDToINRRate)
	}
}

func TestFormatINR_IndianGrouping(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{24939, "₹24,939"},
		{100000, "₹1,00,000"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-24939, "-₹24,939"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.amount))
	}
}
