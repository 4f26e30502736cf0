package persistence

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM. All
// queries read the write-side tables directly.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// LeadBuckets counts leads per stored status
func (r *GormReportRepository) LeadBuckets(ctx context.Context) ([]report.StatusBucket, error) {
	var buckets []report.StatusBucket
	err := r.db.WithContext(ctx).
		Model(&sales.Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// EstimationBuckets counts and sums quotations per status
func (r *GormReportRepository) EstimationBuckets(ctx context.Context) ([]report.StatusBucket, error) {
	var buckets []report.StatusBucket
	err := r.db.WithContext(ctx).
		Model(&sales.Estimation{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Order("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// InvoiceTotals sums the receivables position across all invoices
func (r *GormReportRepository) InvoiceTotals(ctx context.Context) (report.InvoiceTotals, error) {
	var totals report.InvoiceTotals
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COUNT(*) AS count, " +
			"COALESCE(SUM(total), 0) AS billed, " +
			"COALESCE(SUM(paid_amount), 0) AS collected, " +
			"COALESCE(SUM(balance_due), 0) AS outstanding").
		Scan(&totals).Error
	if err != nil {
		return report.InvoiceTotals{}, err
	}
	return totals, nil
}

// UnsettledInvoices lists invoices that are not fully paid, oldest first
func (r *GormReportRepository) UnsettledInvoices(ctx context.Context) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	err := r.db.WithContext(ctx).
		Where("status <> ?", billing.InvoiceStatusPaid).
		Order("invoice_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// PipelineRows lists every lead with its latest quotation and invoice,
// newest lead first. The latest quotation is picked with a correlated
// subquery so the join works on both Postgres and SQLite.
func (r *GormReportRepository) PipelineRows(ctx context.Context, from, to *time.Time) ([]report.PipelineRow, error) {
	q := r.db.WithContext(ctx).
		Table("leads").
		Select("leads.id AS lead_id, leads.lead_no, leads.date AS lead_date, " +
			"leads.company_name, leads.computed_status AS lead_status, " +
			"e.id AS estimation_id, " +
			"COALESCE(e.quote_no, '') AS quote_no, " +
			"COALESCE(e.status, '') AS estimation_status, " +
			"COALESCE(e.po_number, '') AS po_number, " +
			"COALESCE(e.total, 0) AS quote_total, " +
			"COALESCE(i.invoice_no, '') AS invoice_no, " +
			"COALESCE(i.status, '') AS invoice_status, " +
			"COALESCE(i.paid_amount, 0) AS paid_amount, " +
			"COALESCE(i.balance_due, 0) AS balance_due").
		Joins("LEFT JOIN estimations e ON e.id = (" +
			"SELECT id FROM estimations WHERE lead_id = leads.id ORDER BY created_at DESC LIMIT 1)").
		Joins("LEFT JOIN invoices i ON i.estimation_id = e.id").
		Order("leads.date DESC")
	if from != nil {
		q = q.Where("leads.date >= ?", *from)
	}
	if to != nil {
		q = q.Where("leads.date <= ?", *to)
	}

	var rows []report.PipelineRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
