package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadRepository implements sales.LeadRepository using GORM
type GormLeadRepository struct {
	db  *gorm.DB
	gen *GormSequenceGenerator
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB, gen *GormSequenceGenerator) *GormLeadRepository {
	return &GormLeadRepository{db: db, gen: gen}
}

// Save creates or updates a lead. A new lead gets its number allocated in
// the same transaction that inserts it; a lost allocation race re-runs
// with a fresh number.
func (r *GormLeadRepository) Save(ctx context.Context, lead *sales.Lead) error {
	if lead.LeadNo != "" {
		return r.db.WithContext(ctx).Save(lead).Error
	}
	return retryOnDuplicate(func() error {
		lead.LeadNo = ""
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := r.gen.WithTx(tx).NextLeadNumber(ctx)
			if err != nil {
				return err
			}
			if err := lead.AssignNumber(number); err != nil {
				return err
			}
			return tx.Create(lead).Error
		})
	})
}

// FindByID finds a lead by ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Lead, error) {
	var lead sales.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// FindByNumber finds a lead by its display number
func (r *GormLeadRepository) FindByNumber(ctx context.Context, leadNo string) (*sales.Lead, error) {
	var lead sales.Lead
	if err := r.db.WithContext(ctx).First(&lead, "lead_no = ?", leadNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// FindAll lists leads matching the filter, newest first
func (r *GormLeadRepository) FindAll(ctx context.Context, filter sales.LeadFilter) ([]sales.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&sales.Lead{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.LeadType != "" {
		q = q.Where("lead_type = ?", filter.LeadType)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("LOWER(company_name) LIKE LOWER(?) OR lead_no LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []sales.Lead
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// Ensure GormLeadRepository implements LeadRepository
var _ sales.LeadRepository = (*GormLeadRepository)(nil)
