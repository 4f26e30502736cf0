// Package tax implements the GST split computation shared by quotation,
// invoice and report rendering. Keeping a single implementation here is
// what guarantees the three call sites agree on the same breakup.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Breakup is the result of splitting GST on a taxable value.
// For intra-state supplies the tax is split evenly into CGST and SGST;
// for inter-state supplies the full amount is levied as IGST.
type Breakup struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	SameState    bool            `json:"same_state"`
	CGSTRate     decimal.Decimal `json:"cgst_rate"`
	SGSTRate     decimal.Decimal `json:"sgst_rate"`
	IGSTRate     decimal.Decimal `json:"igst_rate"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
}

// IsSameState reports whether the supply is intra-state. A missing or
// blank customer GSTIN is treated as an unregistered person in the home
// state, which is the same-state default.
func IsSameState(customerGSTIN, homeStateCode string) bool {
	gstin := strings.TrimSpace(customerGSTIN)
	if gstin == "" {
		return true
	}
	if len(gstin) < 2 {
		return true
	}
	return strings.EqualFold(gstin[:2], homeStateCode)
}

// Split computes the GST breakup for a taxable value at the given rate.
// customerGSTIN decides the intra/inter-state treatment against
// homeStateCode. All monetary results are rounded to 2 decimal places.
func Split(taxableValue, gstRate decimal.Decimal, customerGSTIN, homeStateCode string) Breakup {
	taxable := taxableValue.Round(2)
	taxAmount := taxable.Mul(gstRate).Div(hundred).Round(2)
	return splitAmount(taxable, taxAmount, gstRate, customerGSTIN, homeStateCode)
}

// SplitAmount splits an already-computed tax amount, as stored on an
// estimation whose line items may carry mixed rates. gstRate is the
// effective rate used for display only.
func SplitAmount(taxableValue, taxAmount, gstRate decimal.Decimal, customerGSTIN, homeStateCode string) Breakup {
	return splitAmount(taxableValue.Round(2), taxAmount.Round(2), gstRate, customerGSTIN, homeStateCode)
}

func splitAmount(taxable, taxAmount, gstRate decimal.Decimal, customerGSTIN, homeStateCode string) Breakup {
	b := Breakup{
		TaxableValue: taxable,
		TaxAmount:    taxAmount,
		SameState:    IsSameState(customerGSTIN, homeStateCode),
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
		CGSTRate:     decimal.Zero,
		SGSTRate:     decimal.Zero,
		IGSTRate:     decimal.Zero,
	}

	if b.SameState {
		half := taxAmount.Div(two).Round(2)
		b.CGST = half
		// SGST takes the remainder so the two halves always sum to the tax
		b.SGST = taxAmount.Sub(half)
		halfRate := gstRate.Div(two)
		b.CGSTRate = halfRate
		b.SGSTRate = halfRate
	} else {
		b.IGST = taxAmount
		b.IGSTRate = gstRate
	}

	b.Total = taxable.Add(taxAmount)
	return b
}
