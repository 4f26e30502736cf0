// Package report defines the read-side aggregate queries behind the
// dashboard and pipeline views.
package report

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusBucket aggregates document count and value per status
type StatusBucket struct {
	Status string
	Count  int64
	Total  decimal.Decimal
}

// InvoiceTotals aggregates the receivables position across all invoices
type InvoiceTotals struct {
	Count       int64
	Billed      decimal.Decimal
	Collected   decimal.Decimal
	Outstanding decimal.Decimal
}

// PipelineRow joins a lead with its latest quotation and, when the
// quotation was approved, that quotation's invoice. Quotation and invoice
// fields are zero-valued for leads that have not progressed that far.
type PipelineRow struct {
	LeadID           uuid.UUID
	LeadNo           string
	LeadDate         time.Time
	CompanyName      string
	LeadStatus       string
	EstimationID     *uuid.UUID
	QuoteNo          string
	EstimationStatus string
	PONumber         string
	QuoteTotal       decimal.Decimal
	InvoiceNo        string
	InvoiceStatus    string
	PaidAmount       decimal.Decimal
	BalanceDue       decimal.Decimal
}

// Repository defines the aggregate queries. Implementations read the
// same tables the write side maintains; there is no separate read store.
type Repository interface {
	// LeadBuckets counts leads per stored status
	LeadBuckets(ctx context.Context) ([]StatusBucket, error)
	// EstimationBuckets counts and sums quotations per status
	EstimationBuckets(ctx context.Context) ([]StatusBucket, error)
	// InvoiceTotals sums the billed, collected and outstanding amounts
	InvoiceTotals(ctx context.Context) (InvoiceTotals, error)
	// UnsettledInvoices lists invoices that are not fully paid, oldest
	// first. Overdue is decided in Go from the credit terms.
	UnsettledInvoices(ctx context.Context) ([]billing.Invoice, error)
	// PipelineRows lists every lead with its latest quotation and invoice,
	// newest lead first. A nil bound leaves that side of the lead-date
	// range open; both bounds are inclusive.
	PipelineRows(ctx context.Context, from, to *time.Time) ([]PipelineRow, error)
}
