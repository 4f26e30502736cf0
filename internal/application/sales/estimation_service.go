package sales

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimationService handles quotation business operations
type EstimationService struct {
	estimationRepo sales.EstimationRepository
	leadRepo       sales.LeadRepository
	clientRepo     partner.ClientRepository
	invoiceRepo    billing.InvoiceRepository
	defaultGSTRate decimal.Decimal
}

// NewEstimationService creates a new EstimationService. Items quoted
// without an explicit tax percent fall back to defaultGSTRate.
func NewEstimationService(
	estimationRepo sales.EstimationRepository,
	leadRepo sales.LeadRepository,
	clientRepo partner.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	defaultGSTRate decimal.Decimal,
) *EstimationService {
	return &EstimationService{
		estimationRepo: estimationRepo,
		leadRepo:       leadRepo,
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		defaultGSTRate: defaultGSTRate,
	}
}

// Create creates a quotation with a client snapshot. Addresses left empty
// default to the client's address, and linking a lead moves it to Quoted.
func (s *EstimationService) Create(ctx context.Context, req CreateEstimationRequest) (*EstimationResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	billingAddress := req.BillingAddress
	if billingAddress == "" {
		billingAddress = client.Address
	}
	shippingAddress := req.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = billingAddress
	}

	est, err := sales.NewEstimation(client.ID, client.CompanyName, client.GSTNo,
		billingAddress, shippingAddress, req.ValidityDays)
	if err != nil {
		return nil, err
	}
	est.TermsConditions = req.TermsConditions
	est.BankDetails = req.BankDetails

	var lead *sales.Lead
	if req.LeadID != nil {
		lead, err = s.leadRepo.FindByID(ctx, *req.LeadID)
		if err != nil {
			return nil, err
		}
		est.LinkLead(lead.ID, lead.LeadNo)
	}

	if err := s.applyItems(est, req.Items); err != nil {
		return nil, err
	}
	if req.Discount != nil {
		if err := est.ApplyDiscount(valueobject.NewMoneyINR(*req.Discount)); err != nil {
			return nil, err
		}
	}

	if err := s.estimationRepo.Save(ctx, est); err != nil {
		return nil, err
	}

	if lead != nil {
		lead.RefreshComputedStatus(est.Status, true)
		if err := s.leadRepo.Save(ctx, lead); err != nil {
			return nil, err
		}
	}

	resp := ToEstimationResponse(est)
	return &resp, nil
}

// GetByID retrieves a quotation by ID
func (s *EstimationService) GetByID(ctx context.Context, id uuid.UUID) (*EstimationResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEstimationResponse(est)
	return &resp, nil
}

// GetByQuoteNo retrieves a quotation by its document number
func (s *EstimationService) GetByQuoteNo(ctx context.Context, quoteNo string) (*EstimationResponse, error) {
	est, err := s.estimationRepo.FindByQuoteNo(ctx, quoteNo)
	if err != nil {
		return nil, err
	}
	resp := ToEstimationResponse(est)
	return &resp, nil
}

// List retrieves quotations matching the filter
func (s *EstimationService) List(ctx context.Context, filter sales.EstimationFilter) ([]EstimationResponse, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	ests, total, err := s.estimationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EstimationResponse, len(ests))
	for i := range ests {
		responses[i] = ToEstimationResponse(&ests[i])
	}
	return responses, total, nil
}

// Update edits a still-open quotation as a whole document, items included
func (s *EstimationService) Update(ctx context.Context, id uuid.UUID, req UpdateEstimationRequest) (*EstimationResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	gstNo := req.GSTNo
	if gstNo == "" {
		gstNo = est.GSTNo
	}
	if err := est.UpdateDetails(gstNo, req.BillingAddress, req.ShippingAddress,
		req.TermsConditions, req.BankDetails, req.ValidityDays); err != nil {
		return nil, err
	}

	if err := est.ReplaceItems(nil); err != nil {
		return nil, err
	}
	if err := s.applyItems(est, req.Items); err != nil {
		return nil, err
	}
	if req.Discount != nil {
		if err := est.ApplyDiscount(valueobject.NewMoneyINR(*req.Discount)); err != nil {
			return nil, err
		}
	}

	if err := s.estimationRepo.Save(ctx, est); err != nil {
		return nil, err
	}

	resp := ToEstimationResponse(est)
	return &resp, nil
}

// Approve approves a quotation and raises its invoice in one transaction.
// Approving an already approved quotation returns the existing invoice
// with Created set to false instead of failing.
func (s *EstimationService) Approve(ctx context.Context, id uuid.UUID, req ApproveEstimationRequest) (*ApprovalResponse, error) {
	details := sales.ApprovalDetails{
		PONumber:       req.PONumber,
		PODate:         req.PODate,
		POReceivedDate: req.POReceivedDate,
		POAttachment:   req.POAttachment,
		CreditDays:     req.CreditDays,
		Remarks:        req.Remarks,
	}

	inv, created, err := s.invoiceRepo.CreateForApproval(ctx, id, details)
	if err != nil {
		return nil, err
	}

	if err := s.syncLinkedLead(ctx, id); err != nil {
		return nil, err
	}

	return &ApprovalResponse{
		Created:       created,
		InvoiceID:     inv.ID,
		InvoiceNo:     inv.InvoiceNo,
		InvoiceTotal:  inv.Total.StringFixed(2),
		InvoiceStatus: string(inv.Status),
	}, nil
}

// Reject closes a quotation with a reason
func (s *EstimationService) Reject(ctx context.Context, id uuid.UUID, req ReasonRequest) (*EstimationResponse, error) {
	return s.mutate(ctx, id, func(est *sales.Estimation) error {
		return est.Reject(req.Reason)
	})
}

// MarkLost closes a quotation as lost and mirrors the loss onto the lead
func (s *EstimationService) MarkLost(ctx context.Context, id uuid.UUID, req ReasonRequest) (*EstimationResponse, error) {
	resp, err := s.mutate(ctx, id, func(est *sales.Estimation) error {
		return est.MarkLost(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	if err := s.syncLinkedLead(ctx, id); err != nil {
		return nil, err
	}
	return resp, nil
}

// MarkUnderReview parks a quotation with a follow-up date
func (s *EstimationService) MarkUnderReview(ctx context.Context, id uuid.UUID, req UnderReviewRequest) (*EstimationResponse, error) {
	return s.mutate(ctx, id, func(est *sales.Estimation) error {
		return est.MarkUnderReview(req.FollowUpDate, req.Remarks)
	})
}

// ScheduleFollowUp records the next follow-up without changing status
func (s *EstimationService) ScheduleFollowUp(ctx context.Context, id uuid.UUID, req FollowUpRequest) (*EstimationResponse, error) {
	return s.mutate(ctx, id, func(est *sales.Estimation) error {
		return est.ScheduleFollowUp(req.FollowUpDate, req.Remarks)
	})
}

func (s *EstimationService) mutate(ctx context.Context, id uuid.UUID, fn func(*sales.Estimation) error) (*EstimationResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(est); err != nil {
		return nil, err
	}
	if err := s.estimationRepo.Save(ctx, est); err != nil {
		return nil, err
	}
	resp := ToEstimationResponse(est)
	return &resp, nil
}

// syncLinkedLead persists the lead status projection after a quotation
// reaches a terminal decision.
func (s *EstimationService) syncLinkedLead(ctx context.Context, estimationID uuid.UUID) error {
	est, err := s.estimationRepo.FindByID(ctx, estimationID)
	if err != nil {
		return err
	}
	if est.LeadID == nil {
		return nil
	}

	lead, err := s.leadRepo.FindByID(ctx, *est.LeadID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	latest, err := s.estimationRepo.FindLatestByLeadID(ctx, lead.ID)
	if err != nil {
		return err
	}
	lead.RefreshComputedStatus(latest.Status, true)
	return s.leadRepo.Save(ctx, lead)
}

func (s *EstimationService) applyItems(est *sales.Estimation, items []EstimationItemInput) error {
	for _, in := range items {
		taxPercent := s.defaultGSTRate
		if in.TaxPercent != nil {
			taxPercent = *in.TaxPercent
		}
		if _, err := est.AddItem(in.ItemDetails, in.HSNCode, in.Quantity,
			sales.UnitOfMeasure(in.UOM), valueobject.NewMoneyINR(in.Rate), taxPercent); err != nil {
			return err
		}
	}
	return nil
}
