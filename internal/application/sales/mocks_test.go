package sales

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository implements partner.ClientRepository for testing
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, query string, offset, limit int) ([]partner.Client, int64, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Client), args.Get(1).(int64), args.Error(2)
}

// MockLeadRepository implements sales.LeadRepository for testing
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *sales.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByNumber(ctx context.Context, leadNo string) (*sales.Lead, error) {
	args := m.Called(ctx, leadNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter sales.LeadFilter) ([]sales.Lead, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]sales.Lead), args.Get(1).(int64), args.Error(2)
}

// MockEstimationRepository implements sales.EstimationRepository for testing
type MockEstimationRepository struct {
	mock.Mock
}

func (m *MockEstimationRepository) Save(ctx context.Context, est *sales.Estimation) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *MockEstimationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Estimation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Estimation), args.Error(1)
}

func (m *MockEstimationRepository) FindByQuoteNo(ctx context.Context, quoteNo string) (*sales.Estimation, error) {
	args := m.Called(ctx, quoteNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Estimation), args.Error(1)
}

func (m *MockEstimationRepository) FindAll(ctx context.Context, filter sales.EstimationFilter) ([]sales.Estimation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]sales.Estimation), args.Get(1).(int64), args.Error(2)
}

func (m *MockEstimationRepository) FindLatestByLeadID(ctx context.Context, leadID uuid.UUID) (*sales.Estimation, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Estimation), args.Error(1)
}

// MockDeliveryChallanRepository implements sales.DeliveryChallanRepository
// for testing.
type MockDeliveryChallanRepository struct {
	mock.Mock
}

func (m *MockDeliveryChallanRepository) CreateValidated(ctx context.Context, challan *sales.DeliveryChallan) error {
	args := m.Called(ctx, challan)
	return args.Error(0)
}

func (m *MockDeliveryChallanRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.DeliveryChallan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.DeliveryChallan), args.Error(1)
}

func (m *MockDeliveryChallanRepository) FindByEstimationID(ctx context.Context, estimationID uuid.UUID) ([]sales.DeliveryChallan, error) {
	args := m.Called(ctx, estimationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.DeliveryChallan), args.Error(1)
}

func (m *MockDeliveryChallanRepository) DeliveredQuantities(ctx context.Context, estimationID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, estimationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

// MockInvoiceRepository implements billing.InvoiceRepository for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByEstimationID(ctx context.Context, estimationID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, estimationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) CreateForApproval(ctx context.Context, estimationID uuid.UUID, details sales.ApprovalDetails) (*billing.Invoice, bool, error) {
	args := m.Called(ctx, estimationID, details)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*billing.Invoice), args.Bool(1), args.Error(2)
}

func (m *MockInvoiceRepository) AppendPayment(ctx context.Context, invoiceID uuid.UUID, amount valueobject.Money, paymentDate time.Time, utrNumber, remarks string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceID, amount, paymentDate, utrNumber, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}
