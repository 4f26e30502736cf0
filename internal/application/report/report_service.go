package report

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/inr"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile identifies the selling entity and its document defaults
type Profile struct {
	CompanyName   string
	Address       string
	GSTIN         string
	Email         string
	Phone         string
	HomeStateCode string
	DefaultTerms  string
	BankDetails   string
}

// ReportService renders dashboards, pipeline breakdowns and printable
// document views. It only reads; every number it shows is derived from
// the write-side tables.
type ReportService struct {
	reportRepo     report.Repository
	estimationRepo sales.EstimationRepository
	invoiceRepo    billing.InvoiceRepository
	profile        Profile
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.Repository, estimationRepo sales.EstimationRepository, invoiceRepo billing.InvoiceRepository, profile Profile) *ReportService {
	return &ReportService{
		reportRepo:     reportRepo,
		estimationRepo: estimationRepo,
		invoiceRepo:    invoiceRepo,
		profile:        profile,
	}
}

// Dashboard assembles the landing-page summary
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	leadBuckets, err := s.reportRepo.LeadBuckets(ctx)
	if err != nil {
		return nil, err
	}
	estBuckets, err := s.reportRepo.EstimationBuckets(ctx)
	if err != nil {
		return nil, err
	}
	invTotals, err := s.reportRepo.InvoiceTotals(ctx)
	if err != nil {
		return nil, err
	}
	unsettled, err := s.reportRepo.UnsettledInvoices(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := decimal.Zero
	var pipelineDocs int64
	for _, b := range estBuckets {
		if sales.EstimationStatus(b.Status).IsOpen() {
			pipeline = pipeline.Add(b.Total)
			pipelineDocs += b.Count
		}
	}

	now := time.Now()
	overdueAmount := decimal.Zero
	var overdueCount int64
	for i := range unsettled {
		if unsettled[i].IsOverdue(now) {
			overdueCount++
			overdueAmount = overdueAmount.Add(unsettled[i].BalanceDue.Amount())
		}
	}

	return &DashboardResponse{
		Leads:            toBuckets(leadBuckets),
		Quotations:       toBuckets(estBuckets),
		OpenPipeline:     pipeline.StringFixed(2),
		OpenPipelineDocs: pipelineDocs,
		InvoiceCount:     invTotals.Count,
		Billed:           invTotals.Billed.StringFixed(2),
		Collected:        invTotals.Collected.StringFixed(2),
		Outstanding:      invTotals.Outstanding.StringFixed(2),
		OverdueCount:     overdueCount,
		OverdueAmount:    overdueAmount.StringFixed(2),
		ConversionRate:   conversionRate(leadBuckets),
	}, nil
}

// conversionRate is the share of leads won, in percent with 2 dp
func conversionRate(leadBuckets []report.StatusBucket) string {
	var total, won int64
	for _, b := range leadBuckets {
		total += b.Count
		if sales.LeadStatus(b.Status) == sales.LeadStatusWon {
			won += b.Count
		}
	}
	if total == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(won).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		StringFixed(2)
}

// Pipeline traces every lead through its latest quotation and invoice.
// A nil bound leaves that side of the lead-date range open.
func (s *ReportService) Pipeline(ctx context.Context, from, to *time.Time) ([]PipelineRowResponse, error) {
	rows, err := s.reportRepo.PipelineRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toPipelineRows(rows), nil
}

// OverdueInvoices lists unsettled invoices past their due date, oldest
// first.
func (s *ReportService) OverdueInvoices(ctx context.Context) ([]OverdueInvoiceResponse, error) {
	unsettled, err := s.reportRepo.UnsettledInvoices(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]OverdueInvoiceResponse, 0, len(unsettled))
	for i := range unsettled {
		inv := &unsettled[i]
		if !inv.IsOverdue(now) {
			continue
		}
		due := inv.DueDate()
		out = append(out, OverdueInvoiceResponse{
			InvoiceID:   inv.ID,
			InvoiceNo:   inv.InvoiceNo,
			CompanyName: inv.CompanyName,
			InvoiceDate: inv.InvoiceDate,
			DueDate:     due,
			DaysOverdue: int(now.Sub(due).Hours() / 24),
			BalanceDue:  inv.BalanceDue.StringFixed(2),
		})
	}
	return out, nil
}

// QuotationDocument assembles the printable quotation view with the GST
// breakup, amount in words and merged terms.
func (s *ReportService) QuotationDocument(ctx context.Context, estimationID uuid.UUID) (*QuotationDocumentResponse, error) {
	est, err := s.estimationRepo.FindByID(ctx, estimationID)
	if err != nil {
		return nil, err
	}

	breakup := tax.SplitAmount(est.TaxableValue(), est.GSTAmount.Amount(),
		est.EffectiveGSTRate(), est.GSTNo, s.profile.HomeStateCode)

	return &QuotationDocumentResponse{
		QuoteNo:       est.QuoteNo,
		QuoteDate:     est.QuoteDate,
		ValidUntil:    est.ValidUntil(),
		Status:        string(est.Status),
		Seller:        s.seller(),
		Buyer:         buyerOf(est),
		Items:         documentLines(est.Items),
		SubTotal:      est.SubTotal.StringFixed(2),
		Discount:      est.Discount.StringFixed(2),
		TaxBreakup:    ToTaxBreakupResponse(breakup),
		Total:         est.Total.StringFixed(2),
		AmountInWords: inr.AmountInWords(est.Total.Amount()),
		Terms:         sales.MergeTerms(s.profile.DefaultTerms, est.TermsConditions),
		BankDetails:   s.bankDetails(est.BankDetails),
	}, nil
}

// InvoiceDocument assembles the printable invoice view. Line items and
// addresses come from the frozen quotation snapshot; amounts and payment
// state come from the invoice.
func (s *ReportService) InvoiceDocument(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDocumentResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	est, err := s.estimationRepo.FindByID(ctx, inv.EstimationID)
	if err != nil {
		return nil, err
	}

	breakup := tax.SplitAmount(est.TaxableValue(), est.GSTAmount.Amount(),
		est.EffectiveGSTRate(), est.GSTNo, s.profile.HomeStateCode)

	return &InvoiceDocumentResponse{
		InvoiceNo:     inv.InvoiceNo,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate(),
		QuoteNo:       inv.QuoteNo,
		PONumber:      est.PONumber,
		Status:        string(inv.Status),
		Seller:        s.seller(),
		Buyer:         buyerOf(est),
		Items:         documentLines(est.Items),
		SubTotal:      est.SubTotal.StringFixed(2),
		Discount:      est.Discount.StringFixed(2),
		TaxBreakup:    ToTaxBreakupResponse(breakup),
		Total:         inv.Total.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		BalanceDue:    inv.BalanceDue.StringFixed(2),
		AmountInWords: inr.AmountInWords(inv.Total.Amount()),
		Terms:         sales.MergeTerms(s.profile.DefaultTerms, est.TermsConditions),
		BankDetails:   s.bankDetails(est.BankDetails),
	}, nil
}

func (s *ReportService) seller() SellerResponse {
	return SellerResponse{
		Name:    s.profile.CompanyName,
		Address: s.profile.Address,
		GSTIN:   s.profile.GSTIN,
		Email:   s.profile.Email,
		Phone:   s.profile.Phone,
	}
}

func (s *ReportService) bankDetails(documentBank string) string {
	if documentBank != "" {
		return documentBank
	}
	return s.profile.BankDetails
}

func buyerOf(est *sales.Estimation) BuyerResponse {
	return BuyerResponse{
		CompanyName:     est.CompanyName,
		GSTNo:           est.GSTNo,
		BillingAddress:  est.BillingAddress,
		ShippingAddress: est.ShippingAddress,
	}
}

func documentLines(items []sales.EstimationItem) []DocumentLineResponse {
	out := make([]DocumentLineResponse, len(items))
	for i := range items {
		out[i] = DocumentLineResponse{
			SlNo:        i + 1,
			ItemDetails: items[i].ItemDetails,
			HSNCode:     items[i].HSNCode,
			Quantity:    items[i].Quantity,
			UOM:         string(items[i].UOM),
			Rate:        items[i].Rate.StringFixed(2),
			TaxPercent:  items[i].TaxPercent,
			Amount:      items[i].Amount.StringFixed(2),
		}
	}
	return out
}
