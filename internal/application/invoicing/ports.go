package invoicing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Metrics records invoicing business metrics
type Metrics interface {
	// InvoiceCreated counts a committed invoice
	InvoiceCreated(total decimal.Decimal, lines, booksSold int)

	// InvoiceRejected counts a create request that was refused, labelled by error code
	InvoiceRejected(reason string)
}

// EventPublisher publishes integration events once the producing transaction has committed
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
