package billing

import (
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents a request to log a payment against an
// invoice.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	UTRNumber   string          `json:"utr_number" binding:"max=100"`
	Remarks     string          `json:"remarks"`
}

// UpdateInvoiceRequest represents a request to edit an invoice's
// commercial terms. Total, when present, re-totals the invoice after a
// negotiated adjustment; it cannot drop below what the ledger has
// already collected.
type UpdateInvoiceRequest struct {
	CreditDays int              `json:"credit_days" binding:"min=0"`
	Remarks    string           `json:"remarks"`
	Total      *decimal.Decimal `json:"total"`
}

// PaymentLogResponse represents one ledger entry in API responses
type PaymentLogResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      string    `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	UTRNumber   string    `json:"utr_number"`
	Remarks     string    `json:"remarks"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID            `json:"id"`
	InvoiceNo    string               `json:"invoice_no"`
	EstimationID uuid.UUID            `json:"estimation_id"`
	QuoteNo      string               `json:"quote_no"`
	ClientID     uuid.UUID            `json:"client_id"`
	CompanyName  string               `json:"company_name"`
	InvoiceDate  time.Time            `json:"invoice_date"`
	DueDate      time.Time            `json:"due_date"`
	Overdue      bool                 `json:"overdue"`
	Total        string               `json:"total"`
	PaidAmount   string               `json:"paid_amount"`
	BalanceDue   string               `json:"balance_due"`
	Status       string               `json:"status"`
	CreditDays   int                  `json:"credit_days"`
	Remarks      string               `json:"remarks,omitempty"`
	PaymentLogs  []PaymentLogResponse `json:"payment_logs"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToPaymentLogResponse converts a ledger entry to its response form
func ToPaymentLogResponse(p *billing.PaymentLog) PaymentLogResponse {
	return PaymentLogResponse{
		ID:          p.ID,
		Amount:      p.Amount.StringFixed(2),
		PaymentDate: p.PaymentDate,
		UTRNumber:   p.UTRNumber,
		Remarks:     p.Remarks,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}

// ToInvoiceResponse converts a domain invoice to its response form
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	logs := make([]PaymentLogResponse, len(inv.PaymentLogs))
	for i := range inv.PaymentLogs {
		logs[i] = ToPaymentLogResponse(&inv.PaymentLogs[i])
	}
	return InvoiceResponse{
		ID:           inv.ID,
		InvoiceNo:    inv.InvoiceNo,
		EstimationID: inv.EstimationID,
		QuoteNo:      inv.QuoteNo,
		ClientID:     inv.ClientID,
		CompanyName:  inv.CompanyName,
		InvoiceDate:  inv.InvoiceDate,
		DueDate:      inv.DueDate(),
		Overdue:      inv.IsOverdue(time.Now()),
		Total:        inv.Total.StringFixed(2),
		PaidAmount:   inv.PaidAmount.StringFixed(2),
		BalanceDue:   inv.BalanceDue.StringFixed(2),
		Status:       string(inv.Status),
		CreditDays:   inv.CreditDays,
		Remarks:      inv.Remarks,
		PaymentLogs:  logs,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}
