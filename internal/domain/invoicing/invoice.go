package invoicing

import (
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice is a billed transaction for one customer.
// Total is derived from the lines when the invoice is issued and persisted as is.
type Invoice struct {
	shared.BaseEntity
	CustomerID int64           `json:"customer_id"`
	IssuedAt   time.Time       `json:"issued_at"`
	Total      decimal.Decimal `json:"total"`

	// Lines and Customer are only populated when the read asked for them
	Lines    []InvoiceLine     `json:"lines,omitempty"`
	Customer *partner.Customer `json:"customer,omitempty"`
}

// Invoice errors
var (
	ErrInvalidCustomer  = shared.NewValidationError("INVALID_CUSTOMER", "Customer id must be a positive integer")
	ErrEmptyInvoice     = shared.NewValidationError("EMPTY_INVOICE", "Invoice must contain at least one line")
	ErrNonPositiveTotal = shared.NewBusinessRuleError("NON_POSITIVE_TOTAL", "Invoice total must be greater than zero")
	ErrLastLine         = shared.NewBusinessRuleError("LAST_INVOICE_LINE", "An invoice must keep at least one line")
)

// NewInvoice creates an empty draft invoice for a customer
func NewInvoice(customerID int64, now time.Time) (*Invoice, error) {
	if customerID <= 0 {
		return nil, ErrInvalidCustomer
	}
	return &Invoice{
		BaseEntity: shared.NewBaseEntity(now),
		CustomerID: customerID,
		Total:      decimal.Zero,
	}, nil
}

// AddLine appends a line for qty units of book, snapshotting the book's current price.
// Stock is not checked here; the caller owns the stock decision.
func (i *Invoice) AddLine(book *catalog.Book, qty int) (*InvoiceLine, error) {
	line, err := NewInvoiceLine(book, qty, i.CreatedAt)
	if err != nil {
		return nil, err
	}
	i.Lines = append(i.Lines, *line)
	i.RecalculateTotal()
	return &i.Lines[len(i.Lines)-1], nil
}

// Issue stamps the issue time after checking the invoice is billable
func (i *Invoice) Issue(now time.Time) error {
	if len(i.Lines) == 0 {
		return ErrEmptyInvoice
	}
	i.RecalculateTotal()
	if !i.Total.IsPositive() {
		return ErrNonPositiveTotal
	}
	i.IssuedAt = now
	return nil
}

// RecalculateTotal sets Total to the sum of the line subtotals
func (i *Invoice) RecalculateTotal() {
	total := decimal.Zero
	for _, line := range i.Lines {
		total = total.Add(line.Subtotal)
	}
	i.Total = total
}

// QuantityByBook sums the requested quantity per book across the lines
func (i *Invoice) QuantityByBook() map[int64]int {
	out := make(map[int64]int, len(i.Lines))
	for _, line := range i.Lines {
		out[line.BookID] += line.Quantity
	}
	return out
}
