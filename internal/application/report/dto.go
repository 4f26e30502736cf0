package report

import (
	"time"

	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusBucketResponse is one row of a per-status breakdown
type StatusBucketResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Total  string `json:"total"`
}

// DashboardResponse is the landing-page summary
type DashboardResponse struct {
	Leads            []StatusBucketResponse `json:"leads"`
	Quotations       []StatusBucketResponse `json:"quotations"`
	OpenPipeline     string                 `json:"open_pipeline"`
	OpenPipelineDocs int64                  `json:"open_pipeline_docs"`
	InvoiceCount     int64                  `json:"invoice_count"`
	Billed           string                 `json:"billed"`
	Collected        string                 `json:"collected"`
	Outstanding      string                 `json:"outstanding"`
	OverdueCount     int64                  `json:"overdue_count"`
	OverdueAmount    string                 `json:"overdue_amount"`
	// ConversionRate is the share of leads won, in percent
	ConversionRate string `json:"conversion_rate"`
}

// PipelineRowResponse traces one lead through quotation and invoice.
// Quotation and invoice fields are empty until the lead reaches that
// stage.
type PipelineRowResponse struct {
	LeadID           uuid.UUID  `json:"lead_id"`
	LeadNo           string     `json:"lead_no"`
	LeadDate         time.Time  `json:"lead_date"`
	CompanyName      string     `json:"company_name"`
	LeadStatus       string     `json:"lead_status"`
	EstimationID     *uuid.UUID `json:"estimation_id,omitempty"`
	QuoteNo          string     `json:"quote_no,omitempty"`
	EstimationStatus string     `json:"estimation_status,omitempty"`
	PONumber         string     `json:"po_number,omitempty"`
	QuoteTotal       string     `json:"quote_total"`
	InvoiceNo        string     `json:"invoice_no,omitempty"`
	InvoiceStatus    string     `json:"invoice_status,omitempty"`
	PaidAmount       string     `json:"paid_amount"`
	BalanceDue       string     `json:"balance_due"`
}

func toPipelineRows(in []report.PipelineRow) []PipelineRowResponse {
	out := make([]PipelineRowResponse, len(in))
	for i, r := range in {
		out[i] = PipelineRowResponse{
			LeadID:           r.LeadID,
			LeadNo:           r.LeadNo,
			LeadDate:         r.LeadDate,
			CompanyName:      r.CompanyName,
			LeadStatus:       r.LeadStatus,
			EstimationID:     r.EstimationID,
			QuoteNo:          r.QuoteNo,
			EstimationStatus: r.EstimationStatus,
			PONumber:         r.PONumber,
			QuoteTotal:       r.QuoteTotal.StringFixed(2),
			InvoiceNo:        r.InvoiceNo,
			InvoiceStatus:    r.InvoiceStatus,
			PaidAmount:       r.PaidAmount.StringFixed(2),
			BalanceDue:       r.BalanceDue.StringFixed(2),
		}
	}
	return out
}

// OverdueInvoiceResponse is one row of the overdue listing
type OverdueInvoiceResponse struct {
	InvoiceID   uuid.UUID `json:"invoice_id"`
	InvoiceNo   string    `json:"invoice_no"`
	CompanyName string    `json:"company_name"`
	InvoiceDate time.Time `json:"invoice_date"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
	BalanceDue  string    `json:"balance_due"`
}

// TaxBreakupResponse renders a GST split on a printable document. For
// intra-state supplies CGST and SGST carry the split; for inter-state
// supplies IGST carries the whole amount.
type TaxBreakupResponse struct {
	TaxableValue string `json:"taxable_value"`
	SameState    bool   `json:"same_state"`
	CGSTRate     string `json:"cgst_rate"`
	SGSTRate     string `json:"sgst_rate"`
	IGSTRate     string `json:"igst_rate"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
	TaxAmount    string `json:"tax_amount"`
	Total        string `json:"total"`
}

// ToTaxBreakupResponse converts a tax breakup to its response form
func ToTaxBreakupResponse(b tax.Breakup) TaxBreakupResponse {
	return TaxBreakupResponse{
		TaxableValue: b.TaxableValue.StringFixed(2),
		SameState:    b.SameState,
		CGSTRate:     b.CGSTRate.StringFixed(2),
		SGSTRate:     b.SGSTRate.StringFixed(2),
		IGSTRate:     b.IGSTRate.StringFixed(2),
		CGST:         b.CGST.StringFixed(2),
		SGST:         b.SGST.StringFixed(2),
		IGST:         b.IGST.StringFixed(2),
		TaxAmount:    b.TaxAmount.StringFixed(2),
		Total:        b.Total.StringFixed(2),
	}
}

// SellerResponse identifies the selling entity on a document
type SellerResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// BuyerResponse is the client snapshot on a document
type BuyerResponse struct {
	CompanyName     string `json:"company_name"`
	GSTNo           string `json:"gst_no"`
	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`
}

// DocumentLineResponse is one printed line item
type DocumentLineResponse struct {
	SlNo        int             `json:"sl_no"`
	ItemDetails string          `json:"item_details"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    int             `json:"quantity"`
	UOM         string          `json:"uom"`
	Rate        string          `json:"rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Amount      string          `json:"amount"`
}

// QuotationDocumentResponse is the printable quotation view
type QuotationDocumentResponse struct {
	QuoteNo       string                 `json:"quote_no"`
	QuoteDate     time.Time              `json:"quote_date"`
	ValidUntil    time.Time              `json:"valid_until"`
	Status        string                 `json:"status"`
	Seller        SellerResponse         `json:"seller"`
	Buyer         BuyerResponse          `json:"buyer"`
	Items         []DocumentLineResponse `json:"items"`
	SubTotal      string                 `json:"sub_total"`
	Discount      string                 `json:"discount"`
	TaxBreakup    TaxBreakupResponse     `json:"tax_breakup"`
	Total         string                 `json:"total"`
	AmountInWords string                 `json:"amount_in_words"`
	Terms         string                 `json:"terms"`
	BankDetails   string                 `json:"bank_details"`
}

// InvoiceDocumentResponse is the printable invoice view
type InvoiceDocumentResponse struct {
	InvoiceNo     string                 `json:"invoice_no"`
	InvoiceDate   time.Time              `json:"invoice_date"`
	DueDate       time.Time              `json:"due_date"`
	QuoteNo       string                 `json:"quote_no"`
	PONumber      string                 `json:"po_number,omitempty"`
	Status        string                 `json:"status"`
	Seller        SellerResponse         `json:"seller"`
	Buyer         BuyerResponse          `json:"buyer"`
	Items         []DocumentLineResponse `json:"items"`
	SubTotal      string                 `json:"sub_total"`
	Discount      string                 `json:"discount"`
	TaxBreakup    TaxBreakupResponse     `json:"tax_breakup"`
	Total         string                 `json:"total"`
	PaidAmount    string                 `json:"paid_amount"`
	BalanceDue    string                 `json:"balance_due"`
	AmountInWords string                 `json:"amount_in_words"`
	Terms         string                 `json:"terms"`
	BankDetails   string                 `json:"bank_details"`
}

func toBuckets(in []report.StatusBucket) []StatusBucketResponse {
	out := make([]StatusBucketResponse, len(in))
	for i, b := range in {
		out[i] = StatusBucketResponse{
			Status: b.Status,
			Count:  b.Count,
			Total:  b.Total.StringFixed(2),
		}
	}
	return out
}
