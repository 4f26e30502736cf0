package persistence

import (
	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/numbering"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// Models returns every persisted model in dependency order
func Models() []any {
	return []any{
		&numbering.Sequence{},
		&partner.Client{},
		&partner.Branch{},
		&sales.Lead{},
		&sales.Estimation{},
		&sales.EstimationItem{},
		&sales.DeliveryChallan{},
		&sales.DeliveryChallanItem{},
		&billing.Invoice{},
		&billing.PaymentLog{},
	}
}

// AutoMigrate creates or updates the schema for all models. Production
// deployments use the SQL migrations instead; this serves tests and local
// development.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
