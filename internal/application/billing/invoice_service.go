package billing

import (
	"context"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceService handles invoice and payment business operations.
// Invoices are only created through quotation approval; this service
// reads, edits terms and appends ledger entries.
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// GetByID retrieves an invoice with its payment ledger
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByInvoiceNo retrieves an invoice by its document number
func (s *InvoiceService) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByEstimationID retrieves the invoice raised from a quotation
func (s *InvoiceService) GetByEstimationID(ctx context.Context, estimationID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByEstimationID(ctx, estimationID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter billing.InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// RecordPayment appends a payment to the invoice's ledger and returns the
// invoice with its recomputed payment state.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.AppendPayment(ctx, invoiceID,
		valueobject.NewMoneyINR(req.Amount), req.PaymentDate, req.UTRNumber, req.Remarks)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListPayments returns the invoice's ledger entries in entry order
func (s *InvoiceService) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]PaymentLogResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	logs := make([]PaymentLogResponse, len(inv.PaymentLogs))
	for i := range inv.PaymentLogs {
		logs[i] = ToPaymentLogResponse(&inv.PaymentLogs[i])
	}
	return logs, nil
}

// UpdateTerms edits an unsettled invoice's credit days, remarks and,
// when requested, its total.
func (s *InvoiceService) UpdateTerms(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.UpdateTerms(req.CreditDays, req.Remarks); err != nil {
		return nil, err
	}
	if req.Total != nil {
		if err := inv.ApplyNewTotal(valueobject.NewMoneyINR(*req.Total)); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}
