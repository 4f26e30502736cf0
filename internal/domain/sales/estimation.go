package sales

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimationStatus represents the lifecycle status of a quotation
type EstimationStatus string

const (
	EstimationStatusPending     EstimationStatus = "Pending"
	EstimationStatusApproved    EstimationStatus = "Approved"
	EstimationStatusRejected    EstimationStatus = "Rejected"
	EstimationStatusLost        EstimationStatus = "Lost"
	EstimationStatusInvoiced    EstimationStatus = "Invoiced"
	EstimationStatusUnderReview EstimationStatus = "Under Review"
)

// IsValid checks if the status is a valid EstimationStatus
func (s EstimationStatus) IsValid() bool {
	switch s {
	case EstimationStatusPending, EstimationStatusApproved, EstimationStatusRejected,
		EstimationStatusLost, EstimationStatusInvoiced, EstimationStatusUnderReview:
		return true
	}
	return false
}

// String returns the string representation of EstimationStatus
func (s EstimationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if transitioning to the target status is allowed
func (s EstimationStatus) CanTransitionTo(target EstimationStatus) bool {
	transitions := map[EstimationStatus][]EstimationStatus{
		EstimationStatusPending: {
			EstimationStatusApproved,
			EstimationStatusRejected,
			EstimationStatusLost,
			EstimationStatusUnderReview,
		},
		EstimationStatusUnderReview: {
			EstimationStatusApproved,
			EstimationStatusRejected,
			EstimationStatusLost,
			EstimationStatusUnderReview,
		},
		EstimationStatusApproved: {
			EstimationStatusInvoiced,
			EstimationStatusLost,
		},
		EstimationStatusRejected: {},
		EstimationStatusLost:     {},
		EstimationStatusInvoiced: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsOpen reports whether the quotation still counts toward the open
// pipeline.
func (s EstimationStatus) IsOpen() bool {
	return s == EstimationStatusPending || s == EstimationStatusUnderReview
}

// UnitOfMeasure is the unit a line item is quoted in
type UnitOfMeasure string

const (
	UOMNos   UnitOfMeasure = "Nos"
	UOMBox   UnitOfMeasure = "Box"
	UOMMeter UnitOfMeasure = "Meter"
)

// IsValid checks if the unit of measure is valid
func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UOMNos, UOMBox, UOMMeter:
		return true
	}
	return false
}

// EstimationItem is a quoted line. Amount is the tax-exclusive line total
// (rate x quantity); GST is applied on top at the item's tax percent.
type EstimationItem struct {
	shared.BaseEntity
	EstimationID uuid.UUID          `gorm:"type:uuid;not null;index"`
	ItemDetails  string             `gorm:"type:text;not null"`
	HSNCode      string             `gorm:"type:varchar(20)"`
	Quantity     int                `gorm:"not null"`
	UOM          UnitOfMeasure      `gorm:"type:varchar(10);not null;default:'Nos'"`
	Rate         valueobject.Money  `gorm:"type:decimal(15,2);not null"`
	TaxPercent   decimal.Decimal    `gorm:"type:decimal(5,2);not null"`
	Amount       valueobject.Money  `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (EstimationItem) TableName() string {
	return "estimation_items"
}

// TaxAmount returns the GST owed on this line, unrounded.
func (i *EstimationItem) TaxAmount() decimal.Decimal {
	return i.Amount.Amount().Mul(i.TaxPercent).Div(decimal.NewFromInt(100))
}

// ApprovalDetails carries the purchase-order fields captured when a
// quotation is approved.
type ApprovalDetails struct {
	PONumber       string
	PODate         *time.Time
	POReceivedDate *time.Time
	POAttachment   string
	CreditDays     int
	Remarks        string
}

// Estimation represents a quotation aggregate root. Client fields are a
// snapshot taken when the quotation is created; later client edits do not
// rewrite issued documents.
type Estimation struct {
	shared.BaseAggregateRoot
	QuoteNo         string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	QuoteDate       time.Time         `gorm:"not null"`
	LeadID          *uuid.UUID        `gorm:"type:uuid;index"`
	LeadNo          string            `gorm:"type:varchar(50)"`
	ClientID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	CompanyName     string            `gorm:"type:varchar(255);not null"`
	GSTNo           string            `gorm:"type:varchar(50)"`
	BillingAddress  string            `gorm:"type:text"`
	ShippingAddress string            `gorm:"type:text"`
	ValidityDays    int               `gorm:"not null;default:30"`
	TermsConditions string            `gorm:"type:text"`
	BankDetails     string            `gorm:"type:text"`
	SubTotal        valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Discount        valueobject.Money `gorm:"type:decimal(15,2);not null"`
	GSTAmount       valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Total           valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Status          EstimationStatus  `gorm:"type:varchar(20);not null;default:'Pending'"`
	PONumber        string            `gorm:"type:varchar(100)"`
	PODate          *time.Time
	POReceivedDate  *time.Time
	POAttachment    string     `gorm:"type:varchar(255)"`
	CreditDays      int        `gorm:"not null;default:0"`
	Remarks         string     `gorm:"type:text"`
	FollowUpDate    *time.Time `gorm:"index"`
	FollowUpRemarks string     `gorm:"type:text"`
	LostReason      string     `gorm:"type:text"`
	Items           []EstimationItem `gorm:"foreignKey:EstimationID"`
}

// TableName returns the table name for GORM
func (Estimation) TableName() string {
	return "estimations"
}

// NewEstimation creates a new quotation in Pending status with a client
// snapshot and no items. The quote number is assigned from the persisted
// counter when the quotation is first saved.
func NewEstimation(clientID uuid.UUID, companyName, gstNo, billingAddress, shippingAddress string, validityDays int) (*Estimation, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if validityDays <= 0 {
		validityDays = 30
	}

	return &Estimation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuoteDate:         time.Now(),
		ClientID:          clientID,
		CompanyName:       companyName,
		GSTNo:             gstNo,
		BillingAddress:    billingAddress,
		ShippingAddress:   shippingAddress,
		ValidityDays:      validityDays,
		SubTotal:          valueobject.ZeroINR(),
		Discount:          valueobject.ZeroINR(),
		GSTAmount:         valueobject.ZeroINR(),
		Total:             valueobject.ZeroINR(),
		Status:            EstimationStatusPending,
	}, nil
}

// AssignNumber sets the quote number exactly once
func (e *Estimation) AssignNumber(quoteNo string) error {
	if quoteNo == "" {
		return shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if e.QuoteNo != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Quote number has already been assigned")
	}
	e.QuoteNo = quoteNo
	return nil
}

// LinkLead attaches the quotation to the lead it answers. The lead number
// is kept as a display alias only; the quote number is the identity.
func (e *Estimation) LinkLead(leadID uuid.UUID, leadNo string) {
	e.LeadID = &leadID
	e.LeadNo = leadNo
}

// IsLocked reports whether the quotation's content may no longer change.
// Once invoiced the document is frozen.
func (e *Estimation) IsLocked() bool {
	return e.Status == EstimationStatusInvoiced
}

// AddItem appends a line item and recalculates the totals
func (e *Estimation) AddItem(itemDetails, hsnCode string, quantity int, uom UnitOfMeasure, rate valueobject.Money, taxPercent decimal.Decimal) (*EstimationItem, error) {
	if e.IsLocked() {
		return nil, shared.ErrDocumentLocked
	}
	if itemDetails == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item details cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if uom == "" {
		uom = UOMNos
	}
	if !uom.IsValid() {
		return nil, shared.NewDomainError("INVALID_UOM", "Unit of measure is not valid")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if taxPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_PERCENT", "Tax percent cannot be negative")
	}

	amount := rate.Multiply(decimal.NewFromInt(int64(quantity))).Round(2)
	item := EstimationItem{
		BaseEntity:   shared.NewBaseEntity(),
		EstimationID: e.ID,
		ItemDetails:  itemDetails,
		HSNCode:      hsnCode,
		Quantity:     quantity,
		UOM:          uom,
		Rate:         rate,
		TaxPercent:   taxPercent,
		Amount:       amount,
	}
	e.Items = append(e.Items, item)
	e.recalculateTotals()

	return &e.Items[len(e.Items)-1], nil
}

// ReplaceItems swaps the full item list, used when a pending quotation is
// edited as a whole document.
func (e *Estimation) ReplaceItems(items []EstimationItem) error {
	if e.IsLocked() {
		return shared.ErrDocumentLocked
	}
	e.Items = e.Items[:0]
	for _, it := range items {
		if _, err := e.AddItem(it.ItemDetails, it.HSNCode, it.Quantity, it.UOM, it.Rate, it.TaxPercent); err != nil {
			return err
		}
	}
	return nil
}

// ItemByID returns the line item with the given ID, or nil
func (e *Estimation) ItemByID(id uuid.UUID) *EstimationItem {
	for i := range e.Items {
		if e.Items[i].ID == id {
			return &e.Items[i]
		}
	}
	return nil
}

// ApplyDiscount sets the document-level discount and recalculates totals.
// The discount applies to the subtotal, never to the GST amount.
func (e *Estimation) ApplyDiscount(discount valueobject.Money) error {
	if e.IsLocked() {
		return shared.ErrDocumentLocked
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(e.SubTotal.Amount()) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the sub total")
	}

	e.Discount = discount
	e.recalculateTotals()
	return nil
}

// recalculateTotals recomputes sub total, GST and total from the items.
// total = sub_total - discount + gst_amount.
func (e *Estimation) recalculateTotals() {
	subTotal := decimal.Zero
	gst := decimal.Zero
	for i := range e.Items {
		subTotal = subTotal.Add(e.Items[i].Amount.Amount())
		gst = gst.Add(e.Items[i].TaxAmount())
	}
	e.SubTotal = valueobject.NewMoneyINR(subTotal.Round(2))
	e.GSTAmount = valueobject.NewMoneyINR(gst.Round(2))
	// A discount applied before the items shrank may now exceed the sub
	// total; cap it so the total never goes negative.
	if e.Discount.Amount().GreaterThan(e.SubTotal.Amount()) {
		e.Discount = e.SubTotal
	}
	e.Total = valueobject.NewMoneyINR(
		e.SubTotal.Amount().Sub(e.Discount.Amount()).Add(e.GSTAmount.Amount()).Round(2))
	e.UpdatedAt = time.Now()
}

// EffectiveGSTRate derives the blended GST percentage from the stored
// amounts, for rendering the tax breakup on documents.
func (e *Estimation) EffectiveGSTRate() decimal.Decimal {
	base := e.SubTotal.Amount().Sub(e.Discount.Amount())
	if base.IsZero() || e.GSTAmount.IsZero() {
		return decimal.Zero
	}
	return e.GSTAmount.Amount().Mul(decimal.NewFromInt(100)).Div(base)
}

// TaxableValue is the base the GST was charged on
func (e *Estimation) TaxableValue() decimal.Decimal {
	return e.SubTotal.Amount().Sub(e.Discount.Amount())
}

// ValidUntil returns the last day the quotation holds
func (e *Estimation) ValidUntil() time.Time {
	return e.QuoteDate.AddDate(0, 0, e.ValidityDays)
}

func (e *Estimation) transitionTo(target EstimationStatus) error {
	if !e.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition quotation from "+e.Status.String()+" to "+target.String())
	}
	e.Status = target
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Approve marks the quotation approved and records the purchase-order
// details. Approval is the step that wins the lead; invoicing follows in
// the same transaction at the service layer.
func (e *Estimation) Approve(details ApprovalDetails) error {
	if len(e.Items) == 0 {
		return shared.NewDomainError("EMPTY_ESTIMATION", "Cannot approve a quotation without items")
	}
	if details.CreditDays < 0 {
		return shared.NewDomainError("INVALID_CREDIT_DAYS", "Credit days cannot be negative")
	}
	if err := e.transitionTo(EstimationStatusApproved); err != nil {
		return err
	}

	e.PONumber = details.PONumber
	e.PODate = details.PODate
	e.POReceivedDate = details.POReceivedDate
	e.POAttachment = details.POAttachment
	e.CreditDays = details.CreditDays
	if details.Remarks != "" {
		e.Remarks = details.Remarks
	}
	return nil
}

// MarkInvoiced freezes the quotation once its invoice exists
func (e *Estimation) MarkInvoiced() error {
	return e.transitionTo(EstimationStatusInvoiced)
}

// Reject closes the quotation with a mandatory reason
func (e *Estimation) Reject(reason string) error {
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A reason is required to reject a quotation")
	}
	if err := e.transitionTo(EstimationStatusRejected); err != nil {
		return err
	}
	e.Remarks = reason
	return nil
}

// MarkLost closes the quotation as lost with a mandatory reason
func (e *Estimation) MarkLost(reason string) error {
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A reason is required to mark a quotation lost")
	}
	if err := e.transitionTo(EstimationStatusLost); err != nil {
		return err
	}
	e.LostReason = reason
	return nil
}

// MarkUnderReview parks the quotation with a follow-up date. The
// quotation still counts as open pipeline.
func (e *Estimation) MarkUnderReview(followUpDate time.Time, remarks string) error {
	if followUpDate.IsZero() {
		return shared.NewDomainError("INVALID_FOLLOW_UP", "Follow-up date is required")
	}
	if err := e.transitionTo(EstimationStatusUnderReview); err != nil {
		return err
	}
	e.FollowUpDate = &followUpDate
	e.FollowUpRemarks = remarks
	return nil
}

// UpdateDetails edits the document header of a still-open quotation
func (e *Estimation) UpdateDetails(gstNo, billingAddress, shippingAddress, termsConditions, bankDetails string, validityDays int) error {
	if e.IsLocked() {
		return shared.NewDomainError("ESTIMATION_INVOICED", "Cannot edit a quotation that has been invoiced")
	}
	if validityDays <= 0 {
		validityDays = e.ValidityDays
	}

	e.GSTNo = gstNo
	e.BillingAddress = billingAddress
	e.ShippingAddress = shippingAddress
	e.TermsConditions = termsConditions
	e.BankDetails = bankDetails
	e.ValidityDays = validityDays
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// ScheduleFollowUp records the next follow-up without changing status
func (e *Estimation) ScheduleFollowUp(date time.Time, remarks string) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_FOLLOW_UP", "Follow-up date is required")
	}
	e.FollowUpDate = &date
	e.FollowUpRemarks = remarks
	e.UpdatedAt = time.Now()
	return nil
}
