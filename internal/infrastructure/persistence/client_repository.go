package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save creates or updates a client together with its branches
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Branches").Save(client).Error; err != nil {
			return err
		}

		// Sync branches: delete removed ones, save the rest
		currentIDs := make([]uuid.UUID, len(client.Branches))
		for i, b := range client.Branches {
			currentIDs[i] = b.ID
		}
		if len(currentIDs) > 0 {
			if err := tx.Where("client_id = ? AND id NOT IN ?", client.ID, currentIDs).
				Delete(&partner.Branch{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("client_id = ?", client.ID).
				Delete(&partner.Branch{}).Error; err != nil {
				return err
			}
		}
		for i := range client.Branches {
			client.Branches[i].ClientID = client.ID
			if err := tx.Save(&client.Branches[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a client by ID, branches included
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).
		Preload("Branches").
		First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAll lists clients matching the optional company-name query
func (r *GormClientRepository) FindAll(ctx context.Context, query string, offset, limit int) ([]partner.Client, int64, error) {
	q := r.db.WithContext(ctx).Model(&partner.Client{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("LOWER(company_name) LIKE LOWER(?) OR LOWER(contact_person) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []partner.Client
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Preload("Branches").Order("company_name ASC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
