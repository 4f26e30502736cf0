// Package numbering defines the document number sequences used across the
// CRM: lead, quotation, delivery challan and invoice numbers.
package numbering

import (
	"context"
	"fmt"
	"time"
)

// Sequence class names. One persisted counter row exists per class that
// uses counter-based allocation.
const (
	SequenceQuotation = "quotation"
)

// Default formats for the scan-based sequences.
const (
	LeadNumberPrefix    = "#"
	ChallanNumberPrefix = "DC-"
	InvoiceNumberPrefix = "INV-"
	DefaultQuotePrefix  = "EST"
	NumberPadding       = 4
)

// Sequence is a persisted counter row for a document class. Allocation
// mutates it only inside a row-locked transaction.
type Sequence struct {
	ID         string    `gorm:"type:varchar(50);primary_key"`
	Prefix     string    `gorm:"type:varchar(10);not null"`
	NextNumber int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "sequences"
}

// Format renders the sequence's current candidate number.
func (s *Sequence) Format() string {
	return FormatNumber(s.Prefix+"-", s.NextNumber)
}

// FormatNumber renders a zero-padded document number with the given prefix.
func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, NumberPadding, n)
}

// Generator allocates unique, monotonically increasing document numbers.
// Implementations must guarantee that two concurrent callers never receive
// the same number, and that a number is only consumed together with the
// record it names.
type Generator interface {
	// NextLeadNumber returns the next lead number, formatted "#NNNN".
	NextLeadNumber(ctx context.Context) (string, error)
	// NextQuoteNumber reserves and returns the next quotation number,
	// formatted "<prefix>-NNNN", from the persisted counter.
	NextQuoteNumber(ctx context.Context) (string, error)
	// NextChallanNumber returns the next delivery challan number,
	// formatted "DC-NNNN".
	NextChallanNumber(ctx context.Context) (string, error)
	// NextInvoiceNumber returns the next invoice number, formatted
	// "INV-NNNN".
	NextInvoiceNumber(ctx context.Context) (string, error)
}
