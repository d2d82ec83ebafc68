package partner

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
)

// Filterable customer fields
const (
	CustomerFirstName shared.Field = "first_name"
	CustomerLastName  shared.Field = "last_name"
	CustomerEmail     shared.Field = "email"
	CustomerInvoices  shared.Field = "invoices"
)

// CustomerFilter holds the optional customer list criteria
type CustomerFilter struct {
	FirstName   *string
	LastName    *string
	Email       *string
	HasInvoices *bool
}

// Spec builds the predicate for the filter
func (f CustomerFilter) Spec() shared.Spec {
	var s shared.Spec
	if v, ok := shared.TextFilter(f.FirstName); ok {
		s = s.And(shared.Contains(CustomerFirstName, v))
	}
	if v, ok := shared.TextFilter(f.LastName); ok {
		s = s.And(shared.Contains(CustomerLastName, v))
	}
	if v, ok := shared.TextFilter(f.Email); ok {
		s = s.And(shared.Contains(CustomerEmail, v))
	}
	if f.HasInvoices != nil {
		s = s.And(shared.Has(CustomerInvoices, *f.HasInvoices))
	}
	return s
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// CountInvoices counts the invoices billed to a customer
	CountInvoices(ctx context.Context, id int64) (int64, error)

	// List returns one page of customers matching the filter, ordered by first name then id
	List(ctx context.Context, filter CustomerFilter, page shared.PageRequest) (*shared.Page[Customer], error)

	// Create inserts a customer and assigns its ID
	Create(ctx context.Context, customer *Customer) error

	// Update saves an existing customer
	Update(ctx context.Context, customer *Customer) error

	// Delete removes a customer by ID
	Delete(ctx context.Context, id int64) error
}
