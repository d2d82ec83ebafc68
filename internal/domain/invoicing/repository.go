package invoicing

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID with the requested relations, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id int64, expand InvoiceExpand) (*Invoice, error)

	// List returns one page of invoices matching the filter, ordered by id
	List(ctx context.Context, filter InvoiceFilter, page shared.PageRequest, expand InvoiceExpand) (*shared.Page[Invoice], error)

	// Create inserts the invoice together with its lines and assigns all IDs
	Create(ctx context.Context, invoice *Invoice) error

	// UpdateTotal stores a recomputed total
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal, now time.Time) error

	// Delete removes an invoice and its lines
	Delete(ctx context.Context, id int64) error
}

// InvoiceLineRepository defines the interface for invoice line persistence
type InvoiceLineRepository interface {
	// FindByID finds a line by ID, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id int64, expand LineExpand) (*InvoiceLine, error)

	// List returns one page of lines matching the filter, ordered by id
	List(ctx context.Context, filter LineFilter, page shared.PageRequest, expand LineExpand) (*shared.Page[InvoiceLine], error)

	// FindByInvoice returns every line of an invoice ordered by id
	FindByInvoice(ctx context.Context, invoiceID int64) ([]InvoiceLine, error)

	// ExistsForBook reports whether any line references the book
	ExistsForBook(ctx context.Context, bookID int64) (bool, error)

	// Update saves the quantity and subtotal of a line
	Update(ctx context.Context, line *InvoiceLine) error

	// Delete removes a line by ID
	Delete(ctx context.Context, id int64) error
}
