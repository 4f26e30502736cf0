package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db  *gorm.DB
	gen *GormSequenceGenerator
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB, gen *GormSequenceGenerator) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, gen: gen}
}

// Save creates or updates the invoice header
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Omit("PaymentLogs").Save(inv).Error
}

// FindByID finds an invoice by ID, ledger included
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByInvoiceNo finds an invoice by its document number
func (r *GormInvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*billing.Invoice, error) {
	return r.findOne(ctx, "invoice_no = ?", invoiceNo)
}

// FindByEstimationID returns the invoice of a quotation
func (r *GormInvoiceRepository) FindByEstimationID(ctx context.Context, estimationID uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, "estimation_id = ?", estimationID)
}

func (r *GormInvoiceRepository) findOne(ctx context.Context, query string, arg any) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("PaymentLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_logs.created_at ASC")
		}).
		First(&inv, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindAll lists invoices matching the filter, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&billing.Invoice{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("LOWER(company_name) LIKE LOWER(?) OR invoice_no LIKE ? OR quote_no LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []billing.Invoice
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Preload("PaymentLogs").Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// CreateForApproval executes the approval transaction. Calling it twice
// for the same quotation returns the first invoice unchanged, so a double
// approval never produces a second invoice; two racing approvals resolve
// the same way because the loser retries and finds the winner's invoice.
func (r *GormInvoiceRepository) CreateForApproval(ctx context.Context, estimationID uuid.UUID, details sales.ApprovalDetails) (*billing.Invoice, bool, error) {
	var inv *billing.Invoice
	created := false

	err := retryOnDuplicate(func() error {
		inv = nil
		created = false
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var est sales.Estimation
			if err := lockForUpdate(tx).
				Preload("Items").
				First(&est, "id = ?", estimationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return shared.ErrNotFound
				}
				return err
			}

			// Idempotency: an invoice already raised wins
			var existing billing.Invoice
			err := tx.Preload("PaymentLogs").
				First(&existing, "estimation_id = ?", est.ID).Error
			if err == nil {
				inv = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := est.Approve(details); err != nil {
				return err
			}
			if err := est.MarkInvoiced(); err != nil {
				return err
			}

			number, err := r.gen.WithTx(tx).NextInvoiceNumber(ctx)
			if err != nil {
				return err
			}

			newInv, err := billing.NewInvoice(number, est.ID, est.QuoteNo, est.ClientID,
				est.CompanyName, est.Total, est.CreditDays, details.Remarks)
			if err != nil {
				return err
			}

			if err := tx.Model(&sales.Estimation{}).
				Where("id = ?", est.ID).
				Updates(map[string]any{
					"status":           est.Status,
					"po_number":        est.PONumber,
					"po_date":          est.PODate,
					"po_received_date": est.POReceivedDate,
					"po_attachment":    est.POAttachment,
					"credit_days":      est.CreditDays,
					"remarks":          est.Remarks,
					"version":          est.Version,
					"updated_at":       time.Now(),
				}).Error; err != nil {
				return err
			}

			if err := tx.Omit("PaymentLogs").Create(newInv).Error; err != nil {
				return err
			}

			inv = newInv
			created = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return inv, created, nil
}

// AppendPayment locks the invoice row, appends a ledger entry and persists
// the recomputed payment state atomically.
func (r *GormInvoiceRepository) AppendPayment(ctx context.Context, invoiceID uuid.UUID, amount valueobject.Money, paymentDate time.Time, utrNumber, remarks string) (*billing.Invoice, error) {
	var inv billing.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Preload("PaymentLogs").
			First(&inv, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		entry, err := inv.RecordPayment(amount, paymentDate, utrNumber, remarks)
		if err != nil {
			return err
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&billing.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{
				"paid_amount": inv.PaidAmount,
				"balance_due": inv.BalanceDue,
				"status":      inv.Status,
				"version":     inv.Version,
				"updated_at":  inv.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
