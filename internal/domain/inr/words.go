// Package inr renders currency amounts as English words using the Indian
// numbering convention (thousand, lakh, crore).
package inr

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a non-negative amount as
// "Rupees <words>[ and <words> Paise] Only".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs()
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if paise >= 100 {
		rupees++
		paise = 0
	}

	var sb strings.Builder
	sb.WriteString("Rupees ")
	sb.WriteString(IntegerWords(rupees))
	if paise > 0 {
		sb.WriteString(" and ")
		sb.WriteString(IntegerWords(paise))
		sb.WriteString(" Paise")
	}
	sb.WriteString(" Only")
	return sb.String()
}

// IntegerWords converts a non-negative integer to words with Indian
// grouping. Values of a crore or more recurse on the crore count.
func IntegerWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		n = -n
	}

	var parts []string

	if crores := n / 10000000; crores > 0 {
		parts = append(parts, IntegerWords(crores)+" Crore")
		n %= 10000000
	}
	if lakhs := n / 100000; lakhs > 0 {
		parts = append(parts, underHundred(lakhs)+" Lakh")
		n %= 100000
	}
	if thousands := n / 1000; thousands > 0 {
		parts = append(parts, underHundred(thousands)+" Thousand")
		n %= 1000
	}
	if hundreds := n / 100; hundreds > 0 {
		parts = append(parts, ones[hundreds]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "And "+underHundred(n))
		} else {
			parts = append(parts, underHundred(n))
		}
	}

	return strings.Join(parts, " ")
}

func underHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
