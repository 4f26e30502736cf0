package report

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository implements report.Repository for testing
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) LeadBuckets(ctx context.Context) ([]report.StatusBucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusBucket), args.Error(1)
}

func (m *MockReportRepository) EstimationBuckets(ctx context.Context) ([]report.StatusBucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusBucket), args.Error(1)
}

func (m *MockReportRepository) InvoiceTotals(ctx context.Context) (report.InvoiceTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.InvoiceTotals), args.Error(1)
}

func (m *MockReportRepository) UnsettledInvoices(ctx context.Context) ([]billing.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockReportRepository) PipelineRows(ctx context.Context, from, to *time.Time) ([]report.PipelineRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.PipelineRow), args.Error(1)
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

var testProfile = Profile{
	CompanyName:   "Shree Electricals",
	Address:       "4 Industrial Estate, Bengaluru",
	GSTIN:         "29AACCS1234A1Z1",
	HomeStateCode: "29",
	DefaultTerms:  "Payment within credit period\nGoods once sold will not be taken back",
	BankDetails:   "HDFC Bank, A/C 50200012345678, IFSC HDFC0000123",
}

func testEstimation(t *testing.T, gstNo string) *sales.Estimation {
	t.Helper()
	est, err := sales.NewEstimation(uuid.New(), "Acme Industries", gstNo,
		"12 MG Road, Bengaluru", "12 MG Road, Bengaluru", 30)
	require.NoError(t, err)
	require.NoError(t, est.AssignNumber("EST-0001"))
	_, err = est.AddItem("Control panel", "8537", 10, sales.UOMNos,
		valueobject.NewMoneyINRFromFloat(500), decimal.NewFromInt(18))
	require.NoError(t, err)
	return est
}

func TestReportService_Dashboard(t *testing.T) {
	reportRepo := new(MockReportRepository)
	svc := NewReportService(reportRepo, new(MockEstimationRepository), new(MockInvoiceRepository), testProfile)

	reportRepo.On("LeadBuckets", mock.Anything).Return([]report.StatusBucket{
		{Status: "Pending", Count: 3},
		{Status: "Won", Count: 2},
	}, nil)
	reportRepo.On("EstimationBuckets", mock.Anything).Return([]report.StatusBucket{
		{Status: "Pending", Count: 2, Total: decimal.NewFromInt(10000)},
		{Status: "Under Review", Count: 1, Total: decimal.NewFromInt(5000)},
		{Status: "Invoiced", Count: 2, Total: decimal.NewFromInt(20000)},
	}, nil)
	reportRepo.On("InvoiceTotals", mock.Anything).Return(report.InvoiceTotals{
		Count:       2,
		Billed:      decimal.NewFromInt(20000),
		Collected:   decimal.NewFromInt(8000),
		Outstanding: decimal.NewFromInt(12000),
	}, nil)

	overdue, err := billing.NewInvoice("INV-0001", uuid.New(), "EST-0001", uuid.New(),
		"Acme Industries", valueobject.NewMoneyINRFromFloat(12000), 30, "")
	require.NoError(t, err)
	overdue.InvoiceDate = time.Now().AddDate(0, 0, -45)
	reportRepo.On("UnsettledInvoices", mock.Anything).Return([]billing.Invoice{*overdue}, nil)

	got, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "15000.00", got.OpenPipeline)
	assert.Equal(t, int64(3), got.OpenPipelineDocs)
	assert.Equal(t, "20000.00", got.Billed)
	assert.Equal(t, "8000.00", got.Collected)
	assert.Equal(t, "12000.00", got.Outstanding)
	assert.Equal(t, int64(1), got.OverdueCount)
	assert.Equal(t, "12000.00", got.OverdueAmount)
	assert.Equal(t, "40.00", got.ConversionRate)
}

func TestReportService_Pipeline(t *testing.T) {
	reportRepo := new(MockReportRepository)
	svc := NewReportService(reportRepo, new(MockEstimationRepository), new(MockInvoiceRepository), testProfile)

	estID := uuid.New()
	rows := []report.PipelineRow{
		{
			LeadID:           uuid.New(),
			LeadNo:           "#0002",
			CompanyName:      "Acme Industries",
			LeadStatus:       "Won",
			EstimationID:     &estID,
			QuoteNo:          "EST-0002",
			EstimationStatus: "Invoiced",
			PONumber:         "PO-77",
			QuoteTotal:       decimal.NewFromInt(5900),
			InvoiceNo:        "INV-0001",
			InvoiceStatus:    "Partial Paid",
			PaidAmount:       decimal.NewFromInt(2000),
			BalanceDue:       decimal.NewFromInt(3900),
		},
		{
			LeadID:      uuid.New(),
			LeadNo:      "#0001",
			CompanyName: "Zenith Tools",
			LeadStatus:  "Pending",
		},
	}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reportRepo.On("PipelineRows", mock.Anything, &from, (*time.Time)(nil)).Return(rows, nil)

	got, err := svc.Pipeline(context.Background(), &from, nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "EST-0002", got[0].QuoteNo)
	assert.Equal(t, "INV-0001", got[0].InvoiceNo)
	assert.Equal(t, "5900.00", got[0].QuoteTotal)
	assert.Equal(t, "2000.00", got[0].PaidAmount)
	assert.Equal(t, "3900.00", got[0].BalanceDue)

	assert.Equal(t, "#0001", got[1].LeadNo)
	assert.Empty(t, got[1].QuoteNo)
	assert.Nil(t, got[1].EstimationID)
	assert.Equal(t, "0.00", got[1].QuoteTotal)
}

func TestReportService_QuotationDocument(t *testing.T) {
	t.Run("intra-state buyer gets a CGST and SGST split", func(t *testing.T) {
		estRepo := new(MockEstimationRepository)
		svc := NewReportService(new(MockReportRepository), estRepo, new(MockInvoiceRepository), testProfile)

		est := testEstimation(t, "29ABCDE1234F1Z5")
		estRepo.On("FindByID", mock.Anything, est.ID).Return(est, nil)

		doc, err := svc.QuotationDocument(context.Background(), est.ID)

		require.NoError(t, err)
		assert.True(t, doc.TaxBreakup.SameState)
		assert.Equal(t, "450.00", doc.TaxBreakup.CGST)
		assert.Equal(t, "450.00", doc.TaxBreakup.SGST)
		assert.Equal(t, "0.00", doc.TaxBreakup.IGST)
		assert.Equal(t, "5900.00", doc.Total)
		assert.Equal(t, "Rupees Five Thousand Nine Hundred Only", doc.AmountInWords)
		assert.Equal(t, testProfile.BankDetails, doc.BankDetails)
	})

	t.Run("inter-state buyer gets IGST", func(t *testing.T) {
		estRepo := new(MockEstimationRepository)
		svc := NewReportService(new(MockReportRepository), estRepo, new(MockInvoiceRepository), testProfile)

		est := testEstimation(t, "27ABCDE1234F1Z5")
		estRepo.On("FindByID", mock.Anything, est.ID).Return(est, nil)

		doc, err := svc.QuotationDocument(context.Background(), est.ID)

		require.NoError(t, err)
		assert.False(t, doc.TaxBreakup.SameState)
		assert.Equal(t, "900.00", doc.TaxBreakup.IGST)
		assert.Equal(t, "0.00", doc.TaxBreakup.CGST)
	})

	t.Run("merges default terms with document terms", func(t *testing.T) {
		estRepo := new(MockEstimationRepository)
		svc := NewReportService(new(MockReportRepository), estRepo, new(MockInvoiceRepository), testProfile)

		est := testEstimation(t, "")
		est.TermsConditions = "Delivery within 4 weeks\nPayment within credit period"
		estRepo.On("FindByID", mock.Anything, est.ID).Return(est, nil)

		doc, err := svc.QuotationDocument(context.Background(), est.ID)

		require.NoError(t, err)
		assert.Equal(t,
			"Payment within credit period\n"+
				"Goods once sold will not be taken back\n"+
				"Delivery within 4 weeks",
			doc.Terms)
	})
}

func TestReportService_InvoiceDocument(t *testing.T) {
	estRepo := new(MockEstimationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewReportService(new(MockReportRepository), estRepo, invoiceRepo, testProfile)

	est := testEstimation(t, "29ABCDE1234F1Z5")
	require.NoError(t, est.Approve(sales.ApprovalDetails{PONumber: "PO-77", CreditDays: 45}))
	require.NoError(t, est.MarkInvoiced())

	inv, err := billing.NewInvoice("INV-0001", est.ID, est.QuoteNo, est.ClientID,
		est.CompanyName, est.Total, 45, "")
	require.NoError(t, err)
	_, err = inv.RecordPayment(valueobject.NewMoneyINRFromFloat(2000), time.Now(), "UTR-1", "")
	require.NoError(t, err)

	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	estRepo.On("FindByID", mock.Anything, est.ID).Return(est, nil)

	doc, err := svc.InvoiceDocument(context.Background(), inv.ID)

	require.NoError(t, err)
	assert.Equal(t, "INV-0001", doc.InvoiceNo)
	assert.Equal(t, "EST-0001", doc.QuoteNo)
	assert.Equal(t, "PO-77", doc.PONumber)
	assert.Equal(t, inv.InvoiceDate.AddDate(0, 0, 45), doc.DueDate)
	assert.Equal(t, "5900.00", doc.Total)
	assert.Equal(t, "2000.00", doc.PaidAmount)
	assert.Equal(t, "3900.00", doc.BalanceDue)
	assert.Equal(t, "450.00", doc.TaxBreakup.CGST)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 1, doc.Items[0].SlNo)
}
