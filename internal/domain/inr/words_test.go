package inr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Rupees Zero Only"},
		{"1", "Rupees One Only"},
		{"19", "Rupees Nineteen Only"},
		{"20", "Rupees Twenty Only"},
		{"45", "Rupees Forty Five Only"},
		{"100", "Rupees One Hundred Only"},
		{"105", "Rupees One Hundred And Five Only"},
		{"999", "Rupees Nine Hundred And Ninety Nine Only"},
		{"1000", "Rupees One Thousand Only"},
		{"1234.56", "Rupees One Thousand Two Hundred And Thirty Four and Fifty Six Paise Only"},
		{"100000", "Rupees One Lakh Only"},
		{"123456", "Rupees One Lakh Twenty Three Thousand Four Hundred And Fifty Six Only"},
		{"10000000", "Rupees One Crore Only"},
		{"12345678.90", "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred And Seventy Eight and Ninety Paise Only"},
		{"0.50", "Rupees Zero and Fifty Paise Only"},
		{"1180", "Rupees One Thousand One Hundred And Eighty Only"},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			got := AmountInWords(decimal.RequireFromString(tc.amount))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAmountInWords_PaiseRounding(t *testing.T) {
	t.Run("paise rounding past a rupee carries over", func(t *testing.T) {
		got := AmountInWords(decimal.RequireFromString("9.999"))
		assert.Equal(t, "Rupees Ten Only", got)
	})

	t.Run("negative amounts use the absolute value", func(t *testing.T) {
		got := AmountInWords(decimal.RequireFromString("-45"))
		assert.Equal(t, "Rupees Forty Five Only", got)
	})
}

func TestIntegerWords(t *testing.T) {
	t.Run("crore counts recurse with Indian grouping", func(t *testing.T) {
		// 123,45,67,890 in Indian digit grouping
		got := IntegerWords(1234567890)
		assert.Equal(t, "One Hundred And Twenty Three Crore Forty Five Lakh Sixty Seven Thousand Eight Hundred And Ninety", got)
	})

	t.Run("zero", func(t *testing.T) {
		assert.Equal(t, "Zero", IntegerWords(0))
	})
}
