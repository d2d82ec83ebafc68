package invoicing

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filterable invoice fields
const (
	InvoiceCustomerID        shared.Field = "customer_id"
	InvoiceCustomerFirstName shared.Field = "customer.first_name"
	InvoiceCustomerLastName  shared.Field = "customer.last_name"
	InvoiceIssuedAt          shared.Field = "issued_at"
	InvoiceTotal             shared.Field = "total"
)

// Filterable invoice line fields
const (
	LineInvoiceID shared.Field = "invoice_id"
	LineBookID    shared.Field = "book_id"
	LineBookTitle shared.Field = "book.title"
	LineQuantity  shared.Field = "quantity"
	LineUnitPrice shared.Field = "unit_price"
)

// InvoiceFilter holds the optional invoice list criteria
type InvoiceFilter struct {
	CustomerID   *int64
	CustomerName *string
	IssuedFrom   *time.Time
	IssuedTo     *time.Time
	MinTotal     *decimal.Decimal
	MaxTotal     *decimal.Decimal
}

// Spec builds the predicate for the filter
func (f InvoiceFilter) Spec() shared.Spec {
	var s shared.Spec
	if f.CustomerID != nil {
		s = s.And(shared.Eq(InvoiceCustomerID, *f.CustomerID))
	}
	if v, ok := shared.TextFilter(f.CustomerName); ok {
		s = s.And(shared.NameWords(v, InvoiceCustomerFirstName, InvoiceCustomerLastName))
	}
	if f.IssuedFrom != nil {
		s = s.And(shared.Gte(InvoiceIssuedAt, *f.IssuedFrom))
	}
	if f.IssuedTo != nil {
		s = s.And(shared.Lte(InvoiceIssuedAt, *f.IssuedTo))
	}
	if f.MinTotal != nil {
		s = s.And(shared.Gte(InvoiceTotal, *f.MinTotal))
	}
	if f.MaxTotal != nil {
		s = s.And(shared.Lte(InvoiceTotal, *f.MaxTotal))
	}
	return s
}

// LineFilter holds the optional invoice line list criteria
type LineFilter struct {
	InvoiceID    *int64
	BookID       *int64
	BookTitle    *string
	MinQuantity  *int
	MaxQuantity  *int
	MinUnitPrice *decimal.Decimal
	MaxUnitPrice *decimal.Decimal
}

// Spec builds the predicate for the filter
func (f LineFilter) Spec() shared.Spec {
	var s shared.Spec
	if f.InvoiceID != nil {
		s = s.And(shared.Eq(LineInvoiceID, *f.InvoiceID))
	}
	if f.BookID != nil {
		s = s.And(shared.Eq(LineBookID, *f.BookID))
	}
	if v, ok := shared.TextFilter(f.BookTitle); ok {
		s = s.And(shared.Contains(LineBookTitle, v))
	}
	if f.MinQuantity != nil {
		s = s.And(shared.Gte(LineQuantity, *f.MinQuantity))
	}
	if f.MaxQuantity != nil {
		s = s.And(shared.Lte(LineQuantity, *f.MaxQuantity))
	}
	if f.MinUnitPrice != nil {
		s = s.And(shared.Gte(LineUnitPrice, *f.MinUnitPrice))
	}
	if f.MaxUnitPrice != nil {
		s = s.And(shared.Lte(LineUnitPrice, *f.MaxUnitPrice))
	}
	return s
}

// InvoiceExpand selects the relations loaded with an invoice
type InvoiceExpand struct {
	Customer  bool
	Lines     bool
	LineBooks bool
}

// Full expands every relation of an invoice
func (InvoiceExpand) Full() InvoiceExpand {
	return InvoiceExpand{Customer: true, Lines: true, LineBooks: true}
}

// LineExpand selects the relations loaded with an invoice line
type LineExpand struct {
	Book bool
}
