package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryChallanRepository implements sales.DeliveryChallanRepository
// using GORM.
type GormDeliveryChallanRepository struct {
	db  *gorm.DB
	gen *GormSequenceGenerator
}

// NewGormDeliveryChallanRepository creates a new GormDeliveryChallanRepository
func NewGormDeliveryChallanRepository(db *gorm.DB, gen *GormSequenceGenerator) *GormDeliveryChallanRepository {
	return &GormDeliveryChallanRepository{db: db, gen: gen}
}

// CreateValidated inserts the challan with the quotation row locked. The
// over-delivery check runs against the quantities visible inside the
// transaction, so two concurrent challans cannot both pass it. A challan
// number lost to a concurrent insert is re-allocated on retry.
func (r *GormDeliveryChallanRepository) CreateValidated(ctx context.Context, challan *sales.DeliveryChallan) error {
	if challan.ChallanNo != "" {
		return r.createTx(ctx, challan)
	}
	return retryOnDuplicate(func() error {
		challan.ChallanNo = ""
		return r.createTx(ctx, challan)
	})
}

func (r *GormDeliveryChallanRepository) createTx(ctx context.Context, challan *sales.DeliveryChallan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var est sales.Estimation
		if err := lockForUpdate(tx).
			Preload("Items").
			First(&est, "id = ?", challan.EstimationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var invoiced int64
		if err := tx.Model(&billing.Invoice{}).
			Where("estimation_id = ?", est.ID).
			Count(&invoiced).Error; err != nil {
			return err
		}
		if invoiced > 0 {
			return shared.NewDomainError("ESTIMATION_INVOICED",
				"Cannot raise a delivery challan against an invoiced quotation")
		}

		delivered, err := deliveredQuantitiesTx(tx, est.ID)
		if err != nil {
			return err
		}
		if err := challan.ValidateAgainst(&est, delivered); err != nil {
			return err
		}

		if challan.ChallanNo == "" {
			number, err := r.gen.WithTx(tx).NextChallanNumber(ctx)
			if err != nil {
				return err
			}
			if err := challan.AssignNumber(number); err != nil {
				return err
			}
		}

		if err := tx.Omit("Items").Create(challan).Error; err != nil {
			return err
		}
		for i := range challan.Items {
			challan.Items[i].ChallanID = challan.ID
			if err := tx.Create(&challan.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a challan by ID, items included
func (r *GormDeliveryChallanRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.DeliveryChallan, error) {
	var challan sales.DeliveryChallan
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&challan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &challan, nil
}

// FindByEstimationID lists all challans raised against a quotation
func (r *GormDeliveryChallanRepository) FindByEstimationID(ctx context.Context, estimationID uuid.UUID) ([]sales.DeliveryChallan, error) {
	var challans []sales.DeliveryChallan
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("estimation_id = ?", estimationID).
		Order("created_at ASC").
		Find(&challans).Error; err != nil {
		return nil, err
	}
	return challans, nil
}

// DeliveredQuantities sums delivered quantity per quotation line across
// all challans of the quotation.
func (r *GormDeliveryChallanRepository) DeliveredQuantities(ctx context.Context, estimationID uuid.UUID) (map[uuid.UUID]int, error) {
	return deliveredQuantitiesTx(r.db.WithContext(ctx), estimationID)
}

func deliveredQuantitiesTx(tx *gorm.DB, estimationID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		EstimationItemID uuid.UUID
		Total            int
	}
	err := tx.Model(&sales.DeliveryChallanItem{}).
		Select("delivery_challan_items.estimation_item_id AS estimation_item_id, SUM(delivery_challan_items.quantity) AS total").
		Joins("JOIN delivery_challans ON delivery_challans.id = delivery_challan_items.challan_id").
		Where("delivery_challans.estimation_id = ?", estimationID).
		Group("delivery_challan_items.estimation_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.EstimationItemID] = row.Total
	}
	return out, nil
}

// Ensure GormDeliveryChallanRepository implements DeliveryChallanRepository
var _ sales.DeliveryChallanRepository = (*GormDeliveryChallanRepository)(nil)
