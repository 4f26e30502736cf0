package billing

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCreditDays applies when an invoice carries no credit terms
const DefaultCreditDays = 30

// InvoiceStatus represents the payment status of an invoice. It is a pure
// function of paid amount versus total and is recomputed on every ledger
// change, never set directly.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid      InvoiceStatus = "Unpaid"
	InvoiceStatusPartialPaid InvoiceStatus = "Partial Paid"
	InvoiceStatusPaid        InvoiceStatus = "Paid"
	InvoiceStatusPending     InvoiceStatus = "Pending"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartialPaid, InvoiceStatusPaid, InvoiceStatusPending:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// PaymentLog is one append-only ledger entry. Entries are never edited or
// deleted; corrections are new entries.
type PaymentLog struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount      valueobject.Money `gorm:"type:decimal(15,2);not null"`
	PaymentDate time.Time         `gorm:"not null"`
	UTRNumber   string            `gorm:"type:varchar(100)"`
	Remarks     string            `gorm:"type:text"`
	// Status is the invoice's status right after this entry was applied,
	// kept for the ledger listing.
	Status InvoiceStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PaymentLog) TableName() string {
	return "payment_logs"
}

// Invoice represents a receivable aggregate root created from an approved
// quotation. Amounts derive from the quotation snapshot; payment state
// derives from the ledger.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNo    string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	EstimationID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	QuoteNo      string            `gorm:"type:varchar(50);not null"`
	ClientID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	CompanyName  string            `gorm:"type:varchar(255);not null"`
	InvoiceDate  time.Time         `gorm:"not null"`
	Total        valueobject.Money `gorm:"type:decimal(15,2);not null"`
	PaidAmount   valueobject.Money `gorm:"type:decimal(15,2);not null"`
	BalanceDue   valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Status       InvoiceStatus     `gorm:"type:varchar(20);not null;default:'Unpaid'"`
	CreditDays   int               `gorm:"not null;default:0"`
	Remarks      string            `gorm:"type:text"`
	PaymentLogs  []PaymentLog      `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an unpaid invoice against a quotation snapshot
func NewInvoice(invoiceNo string, estimationID uuid.UUID, quoteNo string, clientID uuid.UUID, companyName string, total valueobject.Money, creditDays int, remarks string) (*Invoice, error) {
	if invoiceNo == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if estimationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ESTIMATION", "Estimation ID cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}
	if creditDays < 0 {
		return nil, shared.NewDomainError("INVALID_CREDIT_DAYS", "Credit days cannot be negative")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNo:         invoiceNo,
		EstimationID:      estimationID,
		QuoteNo:           quoteNo,
		ClientID:          clientID,
		CompanyName:       companyName,
		InvoiceDate:       time.Now(),
		Total:             total,
		PaidAmount:        valueobject.ZeroINR(),
		BalanceDue:        total,
		Status:            InvoiceStatusUnpaid,
		CreditDays:        creditDays,
		Remarks:           remarks,
	}, nil
}

// DueDate returns the invoice date plus the credit period
func (inv *Invoice) DueDate() time.Time {
	days := inv.CreditDays
	if days <= 0 {
		days = DefaultCreditDays
	}
	return inv.InvoiceDate.AddDate(0, 0, days)
}

// IsOverdue reports whether an unsettled invoice has passed its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status != InvoiceStatusPaid && now.After(inv.DueDate())
}

// IsPaid returns true when the ledger fully covers the total
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// RecordPayment appends a ledger entry and recomputes the payment state.
// Overpayment is accepted; the balance floors at zero.
func (inv *Invoice) RecordPayment(amount valueobject.Money, paymentDate time.Time, utrNumber, remarks string) (*PaymentLog, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	entry := PaymentLog{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		UTRNumber:   utrNumber,
		Remarks:     remarks,
	}
	inv.PaymentLogs = append(inv.PaymentLogs, entry)
	inv.recompute()

	logged := &inv.PaymentLogs[len(inv.PaymentLogs)-1]
	logged.Status = inv.Status
	return logged, nil
}

// recompute derives paid amount, balance and status from the ledger
func (inv *Invoice) recompute() {
	paid := decimal.Zero
	for i := range inv.PaymentLogs {
		paid = paid.Add(inv.PaymentLogs[i].Amount.Amount())
	}
	inv.PaidAmount = valueobject.NewMoneyINR(paid.Round(2))

	balance := inv.Total.Amount().Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	inv.BalanceDue = valueobject.NewMoneyINR(balance.Round(2))

	switch {
	case paid.GreaterThanOrEqual(inv.Total.Amount()) && inv.Total.IsPositive():
		inv.Status = InvoiceStatusPaid
	case paid.IsPositive():
		inv.Status = InvoiceStatusPartialPaid
	default:
		inv.Status = InvoiceStatusUnpaid
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// UpdateTerms edits the invoice's commercial terms. A settled invoice is
// immutable.
func (inv *Invoice) UpdateTerms(creditDays int, remarks string) error {
	if inv.IsPaid() {
		return shared.NewDomainError("INVOICE_PAID", "Cannot edit an invoice that has been fully paid")
	}
	if creditDays < 0 {
		return shared.NewDomainError("INVALID_CREDIT_DAYS", "Credit days cannot be negative")
	}

	inv.CreditDays = creditDays
	inv.Remarks = remarks
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// ApplyNewTotal adjusts the invoice total, refusing any total below what
// the ledger has already collected.
func (inv *Invoice) ApplyNewTotal(total valueobject.Money) error {
	if inv.IsPaid() {
		return shared.NewDomainError("INVOICE_PAID", "Cannot edit an invoice that has been fully paid")
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}
	if total.Amount().LessThan(inv.PaidAmount.Amount()) {
		return shared.NewDomainError("TOTAL_BELOW_PAID", "Invoice total cannot be less than the amount already paid")
	}

	inv.Total = total
	inv.recompute()
	return nil
}
