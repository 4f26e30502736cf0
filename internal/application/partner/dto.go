package partner

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=1,max=255"`
	TypeOfCompany string `json:"type_of_company" binding:"max=100"`
	GSTNo         string `json:"gst_no" binding:"omitempty,gstin"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	Mobile        string `json:"mobile" binding:"max=15"`
	Address       string `json:"address"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=1,max=255"`
	TypeOfCompany string `json:"type_of_company" binding:"max=100"`
	GSTNo         string `json:"gst_no" binding:"omitempty,gstin"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	Mobile        string `json:"mobile" binding:"max=15"`
	Address       string `json:"address"`
}

// AddBranchRequest represents a request to add a branch to a client
type AddBranchRequest struct {
	BranchName    string `json:"branch_name" binding:"required,min=1,max=255"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Mobile        string `json:"mobile" binding:"max=15"`
	Email         string `json:"email" binding:"omitempty,email"`
	GSTNo         string `json:"gst_no" binding:"omitempty,gstin"`
	Address       string `json:"address"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID            uuid.UUID `json:"id"`
	BranchName    string    `json:"branch_name"`
	ContactPerson string    `json:"contact_person"`
	Mobile        string    `json:"mobile"`
	Email         string    `json:"email"`
	GSTNo         string    `json:"gst_no"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID            uuid.UUID        `json:"id"`
	CompanyName   string           `json:"company_name"`
	TypeOfCompany string           `json:"type_of_company"`
	GSTNo         string           `json:"gst_no"`
	ContactPerson string           `json:"contact_person"`
	Email         string           `json:"email"`
	Mobile        string           `json:"mobile"`
	Address       string           `json:"address"`
	Branches      []BranchResponse `json:"branches"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToClientResponse converts a domain client to its response form
func ToClientResponse(c *partner.Client) ClientResponse {
	branches := make([]BranchResponse, len(c.Branches))
	for i, b := range c.Branches {
		branches[i] = BranchResponse{
			ID:            b.ID,
			BranchName:    b.BranchName,
			ContactPerson: b.ContactPerson,
			Mobile:        b.Mobile,
			Email:         b.Email,
			GSTNo:         b.GSTNo,
			Address:       b.Address,
			CreatedAt:     b.CreatedAt,
		}
	}
	return ClientResponse{
		ID:            c.ID,
		CompanyName:   c.CompanyName,
		TypeOfCompany: c.TypeOfCompany,
		GSTNo:         c.GSTNo,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Mobile:        c.Mobile,
		Address:       c.Address,
		Branches:      branches,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
