// Package uow defines the transactional boundary used by application services.
package uow

import (
	"context"
	"errors"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/partner"
)

// ErrClosed is returned when a unit of work is used after commit or rollback
var ErrClosed = errors.New("unit of work is closed")

// Repositories provides access to every repository inside one transaction.
// Each accessor builds its repository on first use and returns the same
// instance for the rest of the unit's lifetime.
type Repositories interface {
	Authors() catalog.AuthorRepository
	Books() catalog.BookRepository
	Customers() partner.CustomerRepository
	Invoices() invoicing.InvoiceRepository
	InvoiceLines() invoicing.InvoiceLineRepository
}

// UnitOfWork owns one database transaction for one logical operation.
// It is not safe for concurrent use and must not outlive the operation.
type UnitOfWork interface {
	Repositories

	// Commit applies every pending write atomically and returns the number of rows they affected
	Commit() (int64, error)

	// Rollback discards pending writes and releases the transaction. It is a no-op after Commit.
	Rollback() error
}

// Factory opens units of work. Implementations are safe for concurrent use.
type Factory interface {
	// Begin opens a new unit bound to a fresh transaction
	Begin(ctx context.Context) (UnitOfWork, error)

	// Execute runs fn inside a new unit: commit when fn returns nil,
	// rollback when it returns an error or panics
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
