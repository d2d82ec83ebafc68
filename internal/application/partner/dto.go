package partner

import (
	"time"

	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
)

// CustomerRequest represents a request to create or update a customer
type CustomerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=200"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	FirstName   *string
	LastName    *string
	Email       *string
	HasInvoices *bool
	Page        int
	PageSize    int
}

func (f CustomerListFilter) domain() (partner.CustomerFilter, shared.PageRequest) {
	return partner.CustomerFilter{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		HasInvoices: f.HasInvoices,
	}, shared.NewPageRequest(f.Page, f.PageSize)
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
