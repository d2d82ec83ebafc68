package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventTypeInvoiceCreated is the routing key of InvoiceCreatedEvent
const EventTypeInvoiceCreated = "invoice.created"

// InvoiceCreatedEvent is published after an invoice has been committed
type InvoiceCreatedEvent struct {
	InvoiceID  int64           `json:"invoice_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	LineCount  int             `json:"line_count"`
	BooksSold  int             `json:"books_sold"`
	IssuedAt   time.Time       `json:"issued_at"`
}

// NewInvoiceCreatedEvent builds the event for a persisted invoice
func NewInvoiceCreatedEvent(inv *Invoice) InvoiceCreatedEvent {
	sold := 0
	for _, line := range inv.Lines {
		sold += line.Quantity
	}
	return InvoiceCreatedEvent{
		InvoiceID:  inv.ID,
		CustomerID: inv.CustomerID,
		Total:      inv.Total,
		LineCount:  len(inv.Lines),
		BooksSold:  sold,
		IssuedAt:   inv.IssuedAt,
	}
}
