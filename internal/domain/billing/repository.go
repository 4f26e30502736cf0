package billing

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	Status   InvoiceStatus
	Query    string
	ClientID *uuid.UUID
	Offset   int
	Limit    int
}

// InvoiceRepository defines persistence operations for invoices and their
// payment ledger.
type InvoiceRepository interface {
	// Save creates or updates the invoice header. Ledger entries are only
	// written through AppendPayment.
	Save(ctx context.Context, inv *Invoice) error
	// FindByID finds an invoice by ID, ledger included
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByInvoiceNo finds an invoice by its document number
	FindByInvoiceNo(ctx context.Context, invoiceNo string) (*Invoice, error)
	// FindByEstimationID returns the invoice of a quotation, or
	// shared.ErrNotFound when it has none.
	FindByEstimationID(ctx context.Context, estimationID uuid.UUID) (*Invoice, error)
	// FindAll lists invoices matching the filter
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	// CreateForApproval executes the approval transaction: it locks the
	// quotation row, returns the existing invoice unchanged if one was
	// already created (created=false), and otherwise approves the
	// quotation, allocates an invoice number, creates the invoice and
	// marks the quotation invoiced, all-or-nothing.
	CreateForApproval(ctx context.Context, estimationID uuid.UUID, details sales.ApprovalDetails) (inv *Invoice, created bool, err error)
	// AppendPayment locks the invoice row, appends a ledger entry,
	// recomputes the payment state and persists both in one transaction.
	AppendPayment(ctx context.Context, invoiceID uuid.UUID, amount valueobject.Money, paymentDate time.Time, utrNumber, remarks string) (*Invoice, error)
}
