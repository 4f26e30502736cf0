package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadFilter narrows lead listings
type LeadFilter struct {
	Status   LeadStatus
	LeadType LeadType
	Query    string
	Offset   int
	Limit    int
}

// LeadRepository defines persistence operations for leads
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindByNumber(ctx context.Context, leadNo string) (*Lead, error)
	FindAll(ctx context.Context, filter LeadFilter) ([]Lead, int64, error)
}

// EstimationFilter narrows quotation listings. FollowUpOn matches
// quotations whose follow-up date falls on that calendar day.
type EstimationFilter struct {
	Status     EstimationStatus
	Query      string
	LeadID     *uuid.UUID
	FollowUpOn *time.Time
	Offset     int
	Limit      int
}

// EstimationRepository defines persistence operations for quotations
type EstimationRepository interface {
	// Save creates or updates a quotation with its items in one
	// transaction.
	Save(ctx context.Context, est *Estimation) error
	// FindByID finds a quotation by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Estimation, error)
	// FindByQuoteNo finds a quotation by its document number
	FindByQuoteNo(ctx context.Context, quoteNo string) (*Estimation, error)
	// FindAll lists quotations matching the filter
	FindAll(ctx context.Context, filter EstimationFilter) ([]Estimation, int64, error)
	// FindLatestByLeadID returns the most recent quotation linked to the
	// lead, or shared.ErrNotFound when the lead has none.
	FindLatestByLeadID(ctx context.Context, leadID uuid.UUID) (*Estimation, error)
}

// DeliveryChallanRepository defines persistence operations for delivery
// challans.
type DeliveryChallanRepository interface {
	// CreateValidated inserts the challan after re-checking, inside the
	// same transaction with the quotation row locked, that no line
	// over-delivers and that the quotation has not been invoiced yet.
	CreateValidated(ctx context.Context, challan *DeliveryChallan) error
	// FindByID finds a challan by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryChallan, error)
	// FindByEstimationID lists all challans raised against a quotation
	FindByEstimationID(ctx context.Context, estimationID uuid.UUID) ([]DeliveryChallan, error)
	// DeliveredQuantities sums delivered quantity per quotation line
	// across all challans of the quotation.
	DeliveredQuantities(ctx context.Context, estimationID uuid.UUID) (map[uuid.UUID]int, error)
}
