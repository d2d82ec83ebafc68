package invoicing

import (
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one book/quantity/price entry of an invoice.
// UnitPrice is a snapshot of the book price when the line was created and never changes afterwards.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID int64           `json:"invoice_id"`
	BookID    int64           `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`

	// Book is only populated when the read asked for it
	Book *catalog.Book `json:"book,omitempty"`
}

// NewInvoiceLine prices qty units of book at the book's current price
func NewInvoiceLine(book *catalog.Book, qty int, now time.Time) (*InvoiceLine, error) {
	if qty <= 0 {
		return nil, catalog.ErrInvalidQuantity
	}
	line := &InvoiceLine{
		BaseEntity: shared.NewBaseEntity(now),
		BookID:     book.ID,
		Quantity:   qty,
		UnitPrice:  book.Price,
	}
	line.recalculate()
	return line, nil
}

// ChangeQuantity sets a new quantity and recomputes the subtotal with the snapshotted price
func (l *InvoiceLine) ChangeQuantity(qty int, now time.Time) error {
	if qty <= 0 {
		return catalog.ErrInvalidQuantity
	}
	l.Quantity = qty
	l.recalculate()
	l.Touch(now)
	return nil
}

func (l *InvoiceLine) recalculate() {
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
