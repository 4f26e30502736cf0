package billing

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func testInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice("INV-0001", uuid.New(), "EST-0001", uuid.New(),
		"Acme Industries", valueobject.NewMoneyINRFromFloat(1180), 30, "")
	require.NoError(t, err)
	return inv
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	inv := testInvoice(t)
	amount := valueobject.NewMoneyINR(decimal.NewFromInt(700))
	paymentDate := time.Now()
	_, err := inv.RecordPayment(amount, paymentDate, "UTR-1", "first tranche")
	require.NoError(t, err)

	repo.On("AppendPayment", mock.Anything, inv.ID, amount, paymentDate, "UTR-1", "first tranche").
		Return(inv, nil)

	resp, err := svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount:      decimal.NewFromInt(700),
		PaymentDate: paymentDate,
		UTRNumber:   "UTR-1",
		Remarks:     "first tranche",
	})

	require.NoError(t, err)
	assert.Equal(t, "700.00", resp.PaidAmount)
	assert.Equal(t, "480.00", resp.BalanceDue)
	assert.Equal(t, string(billing.InvoiceStatusPartialPaid), resp.Status)
	require.Len(t, resp.PaymentLogs, 1)
	assert.Equal(t, "UTR-1", resp.PaymentLogs[0].UTRNumber)
	repo.AssertExpectations(t)
}

func TestInvoiceService_ListPayments(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	inv := testInvoice(t)
	_, err := inv.RecordPayment(valueobject.NewMoneyINRFromFloat(700), time.Now(), "UTR-1", "")
	require.NoError(t, err)
	_, err = inv.RecordPayment(valueobject.NewMoneyINRFromFloat(480), time.Now(), "UTR-2", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	logs, err := svc.ListPayments(context.Background(), inv.ID)

	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, string(billing.InvoiceStatusPartialPaid), logs[0].Status)
	assert.Equal(t, string(billing.InvoiceStatusPaid), logs[1].Status)
}

func TestInvoiceService_UpdateTerms(t *testing.T) {
	t.Run("edits credit days on an unsettled invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo)

		inv := testInvoice(t)
		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		repo.On("Save", mock.Anything, inv).Return(nil)

		resp, err := svc.UpdateTerms(context.Background(), inv.ID, UpdateInvoiceRequest{
			CreditDays: 45,
			Remarks:    "extended terms",
		})

		require.NoError(t, err)
		assert.Equal(t, 45, resp.CreditDays)
		repo.AssertExpectations(t)
	})

	t.Run("re-totals the invoice when a total is given", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo)

		inv := testInvoice(t)
		_, err := inv.RecordPayment(valueobject.NewMoneyINRFromFloat(700), time.Now(), "UTR-1", "")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		repo.On("Save", mock.Anything, inv).Return(nil)

		newTotal := decimal.NewFromInt(900)
		resp, err := svc.UpdateTerms(context.Background(), inv.ID, UpdateInvoiceRequest{
			CreditDays: 30,
			Total:      &newTotal,
		})

		require.NoError(t, err)
		assert.Equal(t, "900.00", resp.Total)
		assert.Equal(t, "200.00", resp.BalanceDue)
		repo.AssertExpectations(t)
	})

	t.Run("refuses a total below the amount already collected", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo)

		inv := testInvoice(t)
		_, err := inv.RecordPayment(valueobject.NewMoneyINRFromFloat(700), time.Now(), "UTR-1", "")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

		newTotal := decimal.NewFromInt(500)
		_, err = svc.UpdateTerms(context.Background(), inv.ID, UpdateInvoiceRequest{
			CreditDays: 30,
			Total:      &newTotal,
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses to edit a settled invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo)

		inv := testInvoice(t)
		_, err := inv.RecordPayment(valueobject.NewMoneyINRFromFloat(1180), time.Now(), "UTR-1", "")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

		_, err = svc.UpdateTerms(context.Background(), inv.ID, UpdateInvoiceRequest{CreditDays: 45})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
