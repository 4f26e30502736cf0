package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/numbering"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxNumberProbes bounds the collision probe loop when a candidate number
// is already taken.
const maxNumberProbes = 1000

// maxAllocationAttempts bounds re-runs of an insert whose scanned number
// lost an allocation race.
const maxAllocationAttempts = 3

// GormSequenceGenerator implements numbering.Generator. Lead, challan and
// invoice numbers derive from a scan of the highest issued number; quote
// numbers come from the persisted counter row so the prefix survives
// renumbering of old documents.
type GormSequenceGenerator struct {
	db          *gorm.DB
	quotePrefix string
}

// NewGormSequenceGenerator creates a generator bound to the given handle.
// Pass a transaction handle to make allocation atomic with the insert that
// consumes the number.
func NewGormSequenceGenerator(db *gorm.DB, quotePrefix string) *GormSequenceGenerator {
	if quotePrefix == "" {
		quotePrefix = numbering.DefaultQuotePrefix
	}
	return &GormSequenceGenerator{db: db, quotePrefix: quotePrefix}
}

// WithTx returns a generator running on the given transaction
func (g *GormSequenceGenerator) WithTx(tx *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: tx, quotePrefix: g.quotePrefix}
}

// NextLeadNumber returns the next lead number, formatted "#NNNN"
func (g *GormSequenceGenerator) NextLeadNumber(ctx context.Context) (string, error) {
	return g.nextScanned(ctx, &sales.Lead{}, "lead_no", numbering.LeadNumberPrefix)
}

// NextChallanNumber returns the next delivery challan number, formatted "DC-NNNN"
func (g *GormSequenceGenerator) NextChallanNumber(ctx context.Context) (string, error) {
	return g.nextScanned(ctx, &sales.DeliveryChallan{}, "challan_no", numbering.ChallanNumberPrefix)
}

// NextInvoiceNumber returns the next invoice number, formatted "INV-NNNN"
func (g *GormSequenceGenerator) NextInvoiceNumber(ctx context.Context) (string, error) {
	return g.nextScanned(ctx, &billing.Invoice{}, "invoice_no", numbering.InvoiceNumberPrefix)
}

// NextQuoteNumber reserves the next quotation number from the counter row.
// The row is locked for the duration of the surrounding transaction, so
// two concurrent allocations serialize and never hand out the same number.
func (g *GormSequenceGenerator) NextQuoteNumber(ctx context.Context) (string, error) {
	var number string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq numbering.Sequence
		err := lockForUpdate(tx).
			First(&seq, "id = ?", numbering.SequenceQuotation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = numbering.Sequence{
				ID:         numbering.SequenceQuotation,
				Prefix:     g.quotePrefix,
				NextNumber: 1,
			}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		n := seq.NextNumber
		prefix := seq.Prefix + "-"
		for i := 0; i < maxNumberProbes; i++ {
			candidate := numbering.FormatNumber(prefix, n)
			var count int64
			if err := tx.Model(&sales.Estimation{}).
				Where("quote_no = ?", candidate).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				number = candidate
				seq.NextNumber = n + 1
				return tx.Model(&numbering.Sequence{}).
					Where("id = ?", seq.ID).
					Update("next_number", seq.NextNumber).Error
			}
			n++
		}
		return fmt.Errorf("no free quotation number after %d probes", maxNumberProbes)
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// nextScanned derives the next number from the highest issued one, then
// probes forward past any collisions. The unique index on the column is
// the final guarantee.
func (g *GormSequenceGenerator) nextScanned(ctx context.Context, model any, column, prefix string) (string, error) {
	db := g.db.WithContext(ctx)

	var last string
	err := db.Model(model).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if last != "" {
		var n int64
		if _, parseErr := fmt.Sscanf(strings.TrimPrefix(last, prefix), "%d", &n); parseErr == nil {
			next = n + 1
		}
	}

	for i := 0; i < maxNumberProbes; i++ {
		candidate := numbering.FormatNumber(prefix, next)
		var count int64
		if err := db.Model(model).
			Where(column+" = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		next++
	}
	return "", fmt.Errorf("no free %s number after %d probes", prefix, maxNumberProbes)
}

// isUniqueViolation reports whether err is a unique-index violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// retryOnDuplicate re-runs fn when its insert collides on a unique index.
// Scanned numbers are computed without a shared lock, so two concurrent
// creations can pick the same candidate; the loser re-allocates inside a
// fresh transaction. Past maxAllocationAttempts the conflict surfaces as
// ErrConcurrencyConflict.
func retryOnDuplicate(fn func() error) error {
	var err error
	for i := 0; i < maxAllocationAttempts; i++ {
		err = fn()
		if !isUniqueViolation(err) {
			return err
		}
	}
	return shared.ErrConcurrencyConflict
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// FOR UPDATE; its single-writer lock already serializes the transaction.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Ensure GormSequenceGenerator implements numbering.Generator
var _ numbering.Generator = (*GormSequenceGenerator)(nil)
