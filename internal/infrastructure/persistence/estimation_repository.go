package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEstimationRepository implements sales.EstimationRepository using GORM
type GormEstimationRepository struct {
	db  *gorm.DB
	gen *GormSequenceGenerator
}

// NewGormEstimationRepository creates a new GormEstimationRepository
func NewGormEstimationRepository(db *gorm.DB, gen *GormSequenceGenerator) *GormEstimationRepository {
	return &GormEstimationRepository{db: db, gen: gen}
}

// Save creates or updates a quotation with its items. A new quotation gets
// its number from the counter inside the same transaction, so a failed
// insert never consumes a number.
func (r *GormEstimationRepository) Save(ctx context.Context, est *sales.Estimation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if est.QuoteNo == "" {
			number, err := r.gen.WithTx(tx).NextQuoteNumber(ctx)
			if err != nil {
				return err
			}
			if err := est.AssignNumber(number); err != nil {
				return err
			}
		}

		if err := tx.Omit("Items").Save(est).Error; err != nil {
			return err
		}

		// Sync items: delete removed ones, save the rest
		currentIDs := make([]uuid.UUID, len(est.Items))
		for i, item := range est.Items {
			currentIDs[i] = item.ID
		}
		if len(currentIDs) > 0 {
			if err := tx.Where("estimation_id = ? AND id NOT IN ?", est.ID, currentIDs).
				Delete(&sales.EstimationItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("estimation_id = ?", est.ID).
				Delete(&sales.EstimationItem{}).Error; err != nil {
				return err
			}
		}
		for i := range est.Items {
			est.Items[i].EstimationID = est.ID
			if err := tx.Save(&est.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a quotation by ID, items included
func (r *GormEstimationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Estimation, error) {
	var est sales.Estimation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&est, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &est, nil
}

// FindByQuoteNo finds a quotation by its document number
func (r *GormEstimationRepository) FindByQuoteNo(ctx context.Context, quoteNo string) (*sales.Estimation, error) {
	var est sales.Estimation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&est, "quote_no = ?", quoteNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &est, nil
}

// FindAll lists quotations matching the filter, newest first
func (r *GormEstimationRepository) FindAll(ctx context.Context, filter sales.EstimationFilter) ([]sales.Estimation, int64, error) {
	q := r.db.WithContext(ctx).Model(&sales.Estimation{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.LeadID != nil {
		q = q.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("LOWER(company_name) LIKE LOWER(?) OR quote_no LIKE ?", pattern, pattern)
	}
	if filter.FollowUpOn != nil {
		day := filter.FollowUpOn.Truncate(24 * time.Hour)
		q = q.Where("follow_up_date >= ? AND follow_up_date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ests []sales.Estimation
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Preload("Items").Order("created_at DESC").Find(&ests).Error; err != nil {
		return nil, 0, err
	}
	return ests, total, nil
}

// FindLatestByLeadID returns the most recent quotation linked to the lead
func (r *GormEstimationRepository) FindLatestByLeadID(ctx context.Context, leadID uuid.UUID) (*sales.Estimation, error) {
	var est sales.Estimation
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		First(&est).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &est, nil
}

// Ensure GormEstimationRepository implements EstimationRepository
var _ sales.EstimationRepository = (*GormEstimationRepository)(nil)
