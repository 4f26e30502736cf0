package sales

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
)

// ChallanService handles delivery challan business operations
type ChallanService struct {
	challanRepo    sales.DeliveryChallanRepository
	estimationRepo sales.EstimationRepository
}

// NewChallanService creates a new ChallanService
func NewChallanService(challanRepo sales.DeliveryChallanRepository, estimationRepo sales.EstimationRepository) *ChallanService {
	return &ChallanService{
		challanRepo:    challanRepo,
		estimationRepo: estimationRepo,
	}
}

// Create raises a delivery challan against a quotation. The delivery
// address defaults to the quotation's shipping address and the PO
// reference to the recorded purchase order number. Quantities are
// validated against the undelivered balance inside the insert
// transaction.
func (s *ChallanService) Create(ctx context.Context, req CreateChallanRequest) (*ChallanResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, req.EstimationID)
	if err != nil {
		return nil, err
	}

	deliveryAddress := req.DeliveryAddress
	if deliveryAddress == "" {
		deliveryAddress = est.ShippingAddress
	}
	poReference := req.POReference
	if poReference == "" {
		poReference = est.PONumber
	}

	challan, err := sales.NewDeliveryChallan(est.ID, deliveryAddress,
		req.ContactPerson, req.ContactNumber, poReference, req.Remarks)
	if err != nil {
		return nil, err
	}

	for _, in := range req.Items {
		if err := challan.AddItem(est.ItemByID(in.EstimationItemID), in.Quantity, in.Description); err != nil {
			return nil, err
		}
	}

	if err := s.challanRepo.CreateValidated(ctx, challan); err != nil {
		return nil, err
	}

	resp := ToChallanResponse(challan)
	return &resp, nil
}

// GetByID retrieves a delivery challan by ID
func (s *ChallanService) GetByID(ctx context.Context, id uuid.UUID) (*ChallanResponse, error) {
	challan, err := s.challanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToChallanResponse(challan)
	return &resp, nil
}

// ListByEstimation lists all challans raised against a quotation
func (s *ChallanService) ListByEstimation(ctx context.Context, estimationID uuid.UUID) ([]ChallanResponse, error) {
	challans, err := s.challanRepo.FindByEstimationID(ctx, estimationID)
	if err != nil {
		return nil, err
	}

	responses := make([]ChallanResponse, len(challans))
	for i := range challans {
		responses[i] = ToChallanResponse(&challans[i])
	}
	return responses, nil
}

// RemainingQuantities reports, per quotation line, how much is still
// undelivered across all challans of the quotation.
func (s *ChallanService) RemainingQuantities(ctx context.Context, estimationID uuid.UUID) ([]RemainingQuantityResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, estimationID)
	if err != nil {
		return nil, err
	}
	delivered, err := s.challanRepo.DeliveredQuantities(ctx, estimationID)
	if err != nil {
		return nil, err
	}

	out := make([]RemainingQuantityResponse, len(est.Items))
	for i := range est.Items {
		item := &est.Items[i]
		out[i] = RemainingQuantityResponse{
			EstimationItemID: item.ID,
			ItemDetails:      item.ItemDetails,
			Quoted:           item.Quantity,
			Delivered:        delivered[item.ID],
			Remaining:        item.Quantity - delivered[item.ID],
		}
	}
	return out, nil
}
