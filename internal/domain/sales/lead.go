package sales

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadStatus represents the status of a sales lead
type LeadStatus string

const (
	LeadStatusPending  LeadStatus = "Pending"
	LeadStatusQuoted   LeadStatus = "Quoted"
	LeadStatusWon      LeadStatus = "Won"
	LeadStatusLost     LeadStatus = "Lost"
	LeadStatusRejected LeadStatus = "Rejected"
)

// IsValid checks if the status is a valid LeadStatus
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusPending, LeadStatusQuoted, LeadStatusWon, LeadStatusLost, LeadStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of LeadStatus
func (s LeadStatus) String() string {
	return string(s)
}

// LeadType represents the origin of a lead
type LeadType string

const (
	LeadTypeReferrals      LeadType = "Referrals"
	LeadTypeEmail          LeadType = "E-mail"
	LeadTypeAdvertisements LeadType = "Advertisements"
	LeadTypeWebsite        LeadType = "Website"
	LeadTypeJD             LeadType = "JD"
	LeadTypeSocialMedia    LeadType = "Social media"
)

// IsValid checks if the lead type is valid
func (t LeadType) IsValid() bool {
	switch t {
	case LeadTypeReferrals, LeadTypeEmail, LeadTypeAdvertisements,
		LeadTypeWebsite, LeadTypeJD, LeadTypeSocialMedia:
		return true
	}
	return false
}

// Lead represents a sales inquiry aggregate root. The contact fields are a
// snapshot taken at creation time, not a live reference to the client.
type Lead struct {
	shared.BaseAggregateRoot
	LeadNo        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date          time.Time  `gorm:"not null"`
	ClientID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyName   string     `gorm:"type:varchar(255);not null"`
	ContactPerson string     `gorm:"type:varchar(100)"`
	Email         string     `gorm:"type:varchar(255)"`
	Mobile        string     `gorm:"type:varchar(20);not null"`
	Address       string     `gorm:"type:text"`
	Requirement   string     `gorm:"type:text"`
	LeadType      LeadType   `gorm:"type:varchar(50);not null;default:'Referrals'"`
	Status        LeadStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
	// ComputedStatus is a projection of the latest linked estimation's
	// status, refreshed whenever leads are listed. It is never edited
	// directly.
	ComputedStatus LeadStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new lead with a contact snapshot. The lead number is
// assigned by the repository when the lead is first persisted.
func NewLead(clientID uuid.UUID, companyName, contactPerson, email, mobile, address, requirement string, leadType LeadType) (*Lead, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if mobile == "" {
		return nil, shared.NewDomainError("INVALID_MOBILE", "Mobile number is required")
	}
	if leadType == "" {
		leadType = LeadTypeReferrals
	}
	if !leadType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAD_TYPE", "Lead type is not valid")
	}

	return &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              time.Now(),
		ClientID:          clientID,
		CompanyName:       companyName,
		ContactPerson:     contactPerson,
		Email:             email,
		Mobile:            mobile,
		Address:           address,
		Requirement:       requirement,
		LeadType:          leadType,
		Status:            LeadStatusPending,
		ComputedStatus:    LeadStatusPending,
	}, nil
}

// AssignNumber sets the lead number exactly once
func (l *Lead) AssignNumber(leadNo string) error {
	if leadNo == "" {
		return shared.NewDomainError("INVALID_LEAD_NUMBER", "Lead number cannot be empty")
	}
	if l.LeadNo != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Lead number has already been assigned")
	}
	l.LeadNo = leadNo
	return nil
}

// IsWon returns true if the lead has been won
func (l *Lead) IsWon() bool {
	return l.Status == LeadStatusWon
}

// Update changes the lead's contact snapshot and requirement. A won lead
// is immutable.
func (l *Lead) Update(contactPerson, email, mobile, address, requirement string) error {
	if l.IsWon() {
		return shared.NewDomainError("LEAD_WON", "Cannot edit a lead with status 'Won'")
	}
	if mobile == "" {
		return shared.NewDomainError("INVALID_MOBILE", "Mobile number is required")
	}

	l.ContactPerson = contactPerson
	l.Email = email
	l.Mobile = mobile
	l.Address = address
	l.Requirement = requirement
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// ComputeLeadStatus projects a lead status from the latest linked
// estimation's status. Leads without an estimation stay Pending.
func ComputeLeadStatus(estStatus EstimationStatus, hasEstimation bool) LeadStatus {
	if !hasEstimation {
		return LeadStatusPending
	}
	switch estStatus {
	case EstimationStatusInvoiced, EstimationStatusApproved:
		return LeadStatusWon
	case EstimationStatusPending:
		return LeadStatusQuoted
	case EstimationStatusLost:
		return LeadStatusLost
	default:
		return LeadStatusPending
	}
}

// RefreshComputedStatus recomputes the projection from the latest linked
// estimation status and mirrors Won/Lost onto the stored status.
func (l *Lead) RefreshComputedStatus(estStatus EstimationStatus, hasEstimation bool) {
	l.ComputedStatus = ComputeLeadStatus(estStatus, hasEstimation)
	switch l.ComputedStatus {
	case LeadStatusWon:
		l.Status = LeadStatusWon
	case LeadStatusLost:
		l.Status = LeadStatusLost
	case LeadStatusQuoted:
		if l.Status == LeadStatusPending {
			l.Status = LeadStatusQuoted
		}
	}
}
