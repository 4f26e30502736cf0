package sales

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryChallanItem records a partial delivery of one quotation line
type DeliveryChallanItem struct {
	shared.BaseEntity
	ChallanID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	EstimationItemID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Description      string        `gorm:"type:text;not null"`
	Quantity         int           `gorm:"not null"`
	UOM              UnitOfMeasure `gorm:"type:varchar(10);not null;default:'Nos'"`
}

// TableName returns the table name for GORM
func (DeliveryChallanItem) TableName() string {
	return "delivery_challan_items"
}

// DeliveryChallan represents a goods delivery note against an approved
// quotation. Every line references a quotation line, and across all
// challans of a quotation the delivered quantity never exceeds the quoted
// quantity.
type DeliveryChallan struct {
	shared.BaseAggregateRoot
	ChallanNo       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	EstimationID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChallanDate     time.Time  `gorm:"not null"`
	DeliveryAddress string     `gorm:"type:text"`
	ContactPerson   string     `gorm:"type:varchar(100)"`
	ContactNumber   string     `gorm:"type:varchar(20)"`
	POReference     string     `gorm:"type:varchar(100)"`
	Remarks         string     `gorm:"type:text"`
	Items           []DeliveryChallanItem `gorm:"foreignKey:ChallanID"`
}

// TableName returns the table name for GORM
func (DeliveryChallan) TableName() string {
	return "delivery_challans"
}

// NewDeliveryChallan creates a delivery challan for the given quotation.
// The challan number is assigned by the repository when the challan is
// persisted.
func NewDeliveryChallan(estimationID uuid.UUID, deliveryAddress, contactPerson, contactNumber, poReference, remarks string) (*DeliveryChallan, error) {
	if estimationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ESTIMATION", "Estimation ID cannot be empty")
	}

	return &DeliveryChallan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EstimationID:      estimationID,
		ChallanDate:       time.Now(),
		DeliveryAddress:   deliveryAddress,
		ContactPerson:     contactPerson,
		ContactNumber:     contactNumber,
		POReference:       poReference,
		Remarks:           remarks,
	}, nil
}

// AssignNumber sets the challan number exactly once
func (d *DeliveryChallan) AssignNumber(challanNo string) error {
	if challanNo == "" {
		return shared.NewDomainError("INVALID_CHALLAN_NUMBER", "Challan number cannot be empty")
	}
	if d.ChallanNo != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Challan number has already been assigned")
	}
	d.ChallanNo = challanNo
	return nil
}

// AddItem appends a delivery line for the given quotation line. The
// description defaults to the quotation line's details when empty.
func (d *DeliveryChallan) AddItem(estItem *EstimationItem, quantity int, description string) error {
	if estItem == nil {
		return shared.NewDomainError("INVALID_ITEM", "Quotation line not found")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Delivery quantity must be positive")
	}
	if description == "" {
		description = estItem.ItemDetails
	}

	d.Items = append(d.Items, DeliveryChallanItem{
		BaseEntity:       shared.NewBaseEntity(),
		ChallanID:        d.ID,
		EstimationItemID: estItem.ID,
		Description:      description,
		Quantity:         quantity,
		UOM:              estItem.UOM,
	})
	d.UpdatedAt = time.Now()
	return nil
}

// QuantityByEstimationItem sums this challan's delivered quantity per
// quotation line.
func (d *DeliveryChallan) QuantityByEstimationItem() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(d.Items))
	for i := range d.Items {
		out[d.Items[i].EstimationItemID] += d.Items[i].Quantity
	}
	return out
}

// ValidateAgainst checks that this challan, on top of the quantities
// already delivered by earlier challans, does not over-deliver any
// quotation line.
func (d *DeliveryChallan) ValidateAgainst(est *Estimation, alreadyDelivered map[uuid.UUID]int) error {
	if len(d.Items) == 0 {
		return shared.NewDomainError("EMPTY_CHALLAN", "A delivery challan must contain at least one item")
	}

	for itemID, qty := range d.QuantityByEstimationItem() {
		estItem := est.ItemByID(itemID)
		if estItem == nil {
			return shared.NewDomainError("INVALID_ITEM", "Delivery line does not belong to this quotation")
		}
		remaining := estItem.Quantity - alreadyDelivered[itemID]
		if qty > remaining {
			return shared.NewDomainError("QUANTITY_EXCEEDED",
				"Delivery quantity for '"+estItem.ItemDetails+"' exceeds the remaining quotation quantity")
		}
	}
	return nil
}
