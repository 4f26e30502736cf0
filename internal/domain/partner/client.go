package partner

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PrimaryBranchName is the name of the branch created with every client.
const PrimaryBranchName = "Primary"

// Branch is a delivery/contact location owned by exactly one client.
// Its contact fields override the client's defaults for that location.
type Branch struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchName    string    `gorm:"type:varchar(255);not null"`
	ContactPerson string    `gorm:"type:varchar(100)"`
	Mobile        string    `gorm:"type:varchar(15)"`
	Email         string    `gorm:"type:varchar(255)"`
	GSTNo         string    `gorm:"type:varchar(50)"`
	Address       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// Client represents a customer company aggregate root. It always owns at
// least the "Primary" branch, created alongside the client in the same
// transaction.
type Client struct {
	shared.BaseAggregateRoot
	CompanyName   string   `gorm:"type:varchar(255);not null"`
	TypeOfCompany string   `gorm:"type:varchar(100)"`
	GSTNo         string   `gorm:"type:varchar(50)"`
	ContactPerson string   `gorm:"type:varchar(100)"`
	Email         string   `gorm:"type:varchar(255)"`
	Mobile        string   `gorm:"type:varchar(15)"`
	Address       string   `gorm:"type:text"`
	Branches      []Branch `gorm:"foreignKey:ClientID"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client together with its mandatory Primary
// branch. The branch inherits the client's contact fields.
func NewClient(companyName, typeOfCompany, gstNo, contactPerson, email, mobile, address string) (*Client, error) {
	if companyName == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(companyName) > 255 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 255 characters")
	}

	c := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		TypeOfCompany:     typeOfCompany,
		GSTNo:             gstNo,
		ContactPerson:     contactPerson,
		Email:             email,
		Mobile:            mobile,
		Address:           address,
	}

	now := time.Now()
	c.Branches = []Branch{{
		ID:            uuid.New(),
		ClientID:      c.ID,
		BranchName:    PrimaryBranchName,
		ContactPerson: contactPerson,
		Mobile:        mobile,
		Email:         email,
		GSTNo:         gstNo,
		Address:       address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}}

	return c, nil
}

// AddBranch adds a new branch to the client
func (c *Client) AddBranch(branchName, contactPerson, mobile, email, gstNo, address string) (*Branch, error) {
	if branchName == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH_NAME", "Branch name cannot be empty")
	}
	for _, b := range c.Branches {
		if b.BranchName == branchName {
			return nil, shared.NewDomainError("DUPLICATE_BRANCH", "A branch with this name already exists")
		}
	}

	now := time.Now()
	branch := Branch{
		ID:            uuid.New(),
		ClientID:      c.ID,
		BranchName:    branchName,
		ContactPerson: contactPerson,
		Mobile:        mobile,
		Email:         email,
		GSTNo:         gstNo,
		Address:       address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.Branches = append(c.Branches, branch)
	c.UpdatedAt = now
	c.IncrementVersion()

	return &c.Branches[len(c.Branches)-1], nil
}

// PrimaryBranch returns the client's Primary branch, or nil if it is
// missing (which only happens on corrupted data).
func (c *Client) PrimaryBranch() *Branch {
	for i := range c.Branches {
		if c.Branches[i].BranchName == PrimaryBranchName {
			return &c.Branches[i]
		}
	}
	return nil
}

// Update changes the client's editable fields
func (c *Client) Update(companyName, typeOfCompany, gstNo, contactPerson, email, mobile, address string) error {
	if companyName == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}

	c.CompanyName = companyName
	c.TypeOfCompany = typeOfCompany
	c.GSTNo = gstNo
	c.ContactPerson = contactPerson
	c.Email = email
	c.Mobile = mobile
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}
