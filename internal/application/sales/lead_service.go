package sales

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadService handles lead business operations
type LeadService struct {
	leadRepo       sales.LeadRepository
	estimationRepo sales.EstimationRepository
	clientRepo     partner.ClientRepository
}

// NewLeadService creates a new LeadService
func NewLeadService(leadRepo sales.LeadRepository, estimationRepo sales.EstimationRepository, clientRepo partner.ClientRepository) *LeadService {
	return &LeadService{
		leadRepo:       leadRepo,
		estimationRepo: estimationRepo,
		clientRepo:     clientRepo,
	}
}

// Create registers a lead against an existing client. Contact fields left
// empty in the request are snapshotted from the client record.
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	contactPerson := req.ContactPerson
	if contactPerson == "" {
		contactPerson = client.ContactPerson
	}
	email := req.Email
	if email == "" {
		email = client.Email
	}
	address := req.Address
	if address == "" {
		address = client.Address
	}

	lead, err := sales.NewLead(client.ID, client.CompanyName, contactPerson,
		email, req.Mobile, address, req.Requirement, sales.LeadType(req.LeadType))
	if err != nil {
		return nil, err
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	resp := ToLeadResponse(lead)
	return &resp, nil
}

// GetByID retrieves a lead with its computed status refreshed
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refreshComputedStatus(ctx, lead); err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

// List retrieves leads matching the filter, computed statuses refreshed
func (s *LeadService) List(ctx context.Context, filter sales.LeadFilter) ([]LeadResponse, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	leads, total, err := s.leadRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		if err := s.refreshComputedStatus(ctx, &leads[i]); err != nil {
			return nil, 0, err
		}
		responses[i] = ToLeadResponse(&leads[i])
	}
	return responses, total, nil
}

// Update edits a lead's contact snapshot. Won leads are immutable.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refreshComputedStatus(ctx, lead); err != nil {
		return nil, err
	}

	if err := lead.Update(req.ContactPerson, req.Email, req.Mobile, req.Address, req.Requirement); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	resp := ToLeadResponse(lead)
	return &resp, nil
}

// refreshComputedStatus projects the latest linked quotation's status onto
// the lead. Leads without a quotation stay as they are stored.
func (s *LeadService) refreshComputedStatus(ctx context.Context, lead *sales.Lead) error {
	est, err := s.estimationRepo.FindLatestByLeadID(ctx, lead.ID)
	if errors.Is(err, shared.ErrNotFound) {
		lead.RefreshComputedStatus("", false)
		return nil
	}
	if err != nil {
		return err
	}
	lead.RefreshComputedStatus(est.Status, true)
	return nil
}
