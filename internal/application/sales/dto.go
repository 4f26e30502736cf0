package sales

import (
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Lead DTOs ====================

// CreateLeadRequest represents a request to register a lead
type CreateLeadRequest struct {
	ClientID      uuid.UUID `json:"client_id" binding:"required"`
	ContactPerson string    `json:"contact_person" binding:"max=100"`
	Email         string    `json:"email" binding:"omitempty,email"`
	Mobile        string    `json:"mobile" binding:"required,max=20"`
	Address       string    `json:"address"`
	Requirement   string    `json:"requirement"`
	LeadType      string    `json:"lead_type"`
}

// UpdateLeadRequest represents a request to update a lead
type UpdateLeadRequest struct {
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	Mobile        string `json:"mobile" binding:"required,max=20"`
	Address       string `json:"address"`
	Requirement   string `json:"requirement"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             uuid.UUID `json:"id"`
	LeadNo         string    `json:"lead_no"`
	Date           time.Time `json:"date"`
	ClientID       uuid.UUID `json:"client_id"`
	CompanyName    string    `json:"company_name"`
	ContactPerson  string    `json:"contact_person"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	Address        string    `json:"address"`
	Requirement    string    `json:"requirement"`
	LeadType       string    `json:"lead_type"`
	Status         string    `json:"status"`
	ComputedStatus string    `json:"computed_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToLeadResponse converts a domain lead to its response form
func ToLeadResponse(l *sales.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		LeadNo:         l.LeadNo,
		Date:           l.Date,
		ClientID:       l.ClientID,
		CompanyName:    l.CompanyName,
		ContactPerson:  l.ContactPerson,
		Email:          l.Email,
		Mobile:         l.Mobile,
		Address:        l.Address,
		Requirement:    l.Requirement,
		LeadType:       string(l.LeadType),
		Status:         string(l.Status),
		ComputedStatus: string(l.ComputedStatus),
		CreatedAt:      l.CreatedAt,
	}
}

// ==================== Estimation DTOs ====================

// EstimationItemInput represents a line item in a quotation request
type EstimationItemInput struct {
	ItemDetails string           `json:"item_details" binding:"required"`
	HSNCode     string           `json:"hsn_code" binding:"max=20"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	UOM         string           `json:"uom"`
	Rate        decimal.Decimal  `json:"rate" binding:"required"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
}

// CreateEstimationRequest represents a request to create a quotation
type CreateEstimationRequest struct {
	ClientID        uuid.UUID             `json:"client_id" binding:"required"`
	LeadID          *uuid.UUID            `json:"lead_id"`
	BillingAddress  string                `json:"billing_address"`
	ShippingAddress string                `json:"shipping_address"`
	ValidityDays    int                   `json:"validity_days"`
	TermsConditions string                `json:"terms_conditions"`
	BankDetails     string                `json:"bank_details"`
	Discount        *decimal.Decimal      `json:"discount"`
	Items           []EstimationItemInput `json:"items" binding:"required,min=1"`
}

// UpdateEstimationRequest represents a request to edit an open quotation
type UpdateEstimationRequest struct {
	BillingAddress  string                `json:"billing_address"`
	ShippingAddress string                `json:"shipping_address"`
	ValidityDays    int                   `json:"validity_days"`
	TermsConditions string                `json:"terms_conditions"`
	BankDetails     string                `json:"bank_details"`
	GSTNo           string                `json:"gst_no"`
	Discount        *decimal.Decimal      `json:"discount"`
	Items           []EstimationItemInput `json:"items" binding:"required,min=1"`
}

// ApproveEstimationRequest carries the purchase order captured on approval
type ApproveEstimationRequest struct {
	PONumber       string     `json:"po_number" binding:"max=100"`
	PODate         *time.Time `json:"po_date"`
	POReceivedDate *time.Time `json:"po_received_date"`
	POAttachment   string     `json:"po_attachment" binding:"max=255"`
	CreditDays     int        `json:"credit_days" binding:"min=0"`
	Remarks        string     `json:"remarks"`
}

// ReasonRequest carries the mandatory reason for reject/lost decisions
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UnderReviewRequest parks a quotation with a follow-up
type UnderReviewRequest struct {
	FollowUpDate time.Time `json:"follow_up_date" binding:"required"`
	Remarks      string    `json:"remarks"`
}

// FollowUpRequest schedules the next follow-up
type FollowUpRequest struct {
	FollowUpDate time.Time `json:"follow_up_date" binding:"required"`
	Remarks      string    `json:"remarks"`
}

// ApprovalResponse reports the outcome of approving a quotation. Created
// is false when the quotation was already approved and the existing
// invoice is returned untouched.
type ApprovalResponse struct {
	Created       bool      `json:"created"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNo     string    `json:"invoice_no"`
	InvoiceTotal  string    `json:"invoice_total"`
	InvoiceStatus string    `json:"invoice_status"`
}

// EstimationItemResponse represents a quotation line in API responses
type EstimationItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemDetails string          `json:"item_details"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    int             `json:"quantity"`
	UOM         string          `json:"uom"`
	Rate        string          `json:"rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Amount      string          `json:"amount"`
}

// EstimationResponse represents a quotation in API responses
type EstimationResponse struct {
	ID              uuid.UUID                `json:"id"`
	QuoteNo         string                   `json:"quote_no"`
	QuoteDate       time.Time                `json:"quote_date"`
	LeadID          *uuid.UUID               `json:"lead_id,omitempty"`
	LeadNo          string                   `json:"lead_no,omitempty"`
	ClientID        uuid.UUID                `json:"client_id"`
	CompanyName     string                   `json:"company_name"`
	GSTNo           string                   `json:"gst_no"`
	BillingAddress  string                   `json:"billing_address"`
	ShippingAddress string                   `json:"shipping_address"`
	ValidityDays    int                      `json:"validity_days"`
	ValidUntil      time.Time                `json:"valid_until"`
	TermsConditions string                   `json:"terms_conditions"`
	BankDetails     string                   `json:"bank_details"`
	SubTotal        string                   `json:"sub_total"`
	Discount        string                   `json:"discount"`
	GSTAmount       string                   `json:"gst_amount"`
	Total           string                   `json:"total"`
	Status          string                   `json:"status"`
	PONumber        string                   `json:"po_number,omitempty"`
	CreditDays      int                      `json:"credit_days"`
	Remarks         string                   `json:"remarks,omitempty"`
	FollowUpDate    *time.Time               `json:"follow_up_date,omitempty"`
	FollowUpRemarks string                   `json:"follow_up_remarks,omitempty"`
	LostReason      string                   `json:"lost_reason,omitempty"`
	Items           []EstimationItemResponse `json:"items"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ToEstimationResponse converts a domain quotation to its response form
func ToEstimationResponse(e *sales.Estimation) EstimationResponse {
	items := make([]EstimationItemResponse, len(e.Items))
	for i, item := range e.Items {
		items[i] = EstimationItemResponse{
			ID:          item.ID,
			ItemDetails: item.ItemDetails,
			HSNCode:     item.HSNCode,
			Quantity:    item.Quantity,
			UOM:         string(item.UOM),
			Rate:        item.Rate.StringFixed(2),
			TaxPercent:  item.TaxPercent,
			Amount:      item.Amount.StringFixed(2),
		}
	}
	return EstimationResponse{
		ID:              e.ID,
		QuoteNo:         e.QuoteNo,
		QuoteDate:       e.QuoteDate,
		LeadID:          e.LeadID,
		LeadNo:          e.LeadNo,
		ClientID:        e.ClientID,
		CompanyName:     e.CompanyName,
		GSTNo:           e.GSTNo,
		BillingAddress:  e.BillingAddress,
		ShippingAddress: e.ShippingAddress,
		ValidityDays:    e.ValidityDays,
		ValidUntil:      e.ValidUntil(),
		TermsConditions: e.TermsConditions,
		BankDetails:     e.BankDetails,
		SubTotal:        e.SubTotal.StringFixed(2),
		Discount:        e.Discount.StringFixed(2),
		GSTAmount:       e.GSTAmount.StringFixed(2),
		Total:           e.Total.StringFixed(2),
		Status:          string(e.Status),
		PONumber:        e.PONumber,
		CreditDays:      e.CreditDays,
		Remarks:         e.Remarks,
		FollowUpDate:    e.FollowUpDate,
		FollowUpRemarks: e.FollowUpRemarks,
		LostReason:      e.LostReason,
		Items:           items,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ==================== Delivery Challan DTOs ====================

// ChallanItemInput represents a delivery line in a challan request
type ChallanItemInput struct {
	EstimationItemID uuid.UUID `json:"estimation_item_id" binding:"required"`
	Quantity         int       `json:"quantity" binding:"required,min=1"`
	Description      string    `json:"description"`
}

// CreateChallanRequest represents a request to raise a delivery challan
type CreateChallanRequest struct {
	EstimationID    uuid.UUID          `json:"estimation_id" binding:"required"`
	DeliveryAddress string             `json:"delivery_address"`
	ContactPerson   string             `json:"contact_person" binding:"max=100"`
	ContactNumber   string             `json:"contact_number" binding:"max=20"`
	POReference     string             `json:"po_reference" binding:"max=100"`
	Remarks         string             `json:"remarks"`
	Items           []ChallanItemInput `json:"items" binding:"required,min=1"`
}

// ChallanItemResponse represents a delivery line in API responses
type ChallanItemResponse struct {
	ID               uuid.UUID `json:"id"`
	EstimationItemID uuid.UUID `json:"estimation_item_id"`
	Description      string    `json:"description"`
	Quantity         int       `json:"quantity"`
	UOM              string    `json:"uom"`
}

// ChallanResponse represents a delivery challan in API responses
type ChallanResponse struct {
	ID              uuid.UUID             `json:"id"`
	ChallanNo       string                `json:"challan_no"`
	EstimationID    uuid.UUID             `json:"estimation_id"`
	ChallanDate     time.Time             `json:"challan_date"`
	DeliveryAddress string                `json:"delivery_address"`
	ContactPerson   string                `json:"contact_person"`
	ContactNumber   string                `json:"contact_number"`
	POReference     string                `json:"po_reference"`
	Remarks         string                `json:"remarks"`
	Items           []ChallanItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToChallanResponse converts a domain challan to its response form
func ToChallanResponse(d *sales.DeliveryChallan) ChallanResponse {
	items := make([]ChallanItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = ChallanItemResponse{
			ID:               item.ID,
			EstimationItemID: item.EstimationItemID,
			Description:      item.Description,
			Quantity:         item.Quantity,
			UOM:              string(item.UOM),
		}
	}
	return ChallanResponse{
		ID:              d.ID,
		ChallanNo:       d.ChallanNo,
		EstimationID:    d.EstimationID,
		ChallanDate:     d.ChallanDate,
		DeliveryAddress: d.DeliveryAddress,
		ContactPerson:   d.ContactPerson,
		ContactNumber:   d.ContactNumber,
		POReference:     d.POReference,
		Remarks:         d.Remarks,
		Items:           items,
		CreatedAt:       d.CreatedAt,
	}
}

// RemainingQuantityResponse reports the undelivered balance of one line
type RemainingQuantityResponse struct {
	EstimationItemID uuid.UUID `json:"estimation_item_id"`
	ItemDetails      string    `json:"item_details"`
	Quoted           int       `json:"quoted"`
	Delivered        int       `json:"delivered"`
	Remaining        int       `json:"remaining"`
}
