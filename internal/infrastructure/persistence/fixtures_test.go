package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestDatabase opens a migrated in-memory SQLite database private to the test
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB, first, last string) *catalog.Author {
	t.Helper()
	author, err := catalog.NewAuthor(first, last, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormAuthorRepository(db).Create(context.Background(), author))
	return author
}

func seedBook(t *testing.T, db *gorm.DB, authorID int64, title, price string, stock int) *catalog.Book {
	t.Helper()
	book, err := catalog.NewBook(catalog.BookDetails{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		AuthorID: authorID,
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormBookRepository(db).Create(context.Background(), book))
	return book
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last, email string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(first, last, email, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Create(context.Background(), customer))
	return customer
}

type lineSeed struct {
	book *catalog.Book
	qty  int
}

func seedInvoice(t *testing.T, db *gorm.DB, customerID int64, issuedAt time.Time, lines ...lineSeed) *invoicing.Invoice {
	t.Helper()
	invoice, err := invoicing.NewInvoice(customerID, issuedAt)
	require.NoError(t, err)
	for _, l := range lines {
		_, err := invoice.AddLine(l.book, l.qty)
		require.NoError(t, err)
	}
	require.NoError(t, invoice.Issue(issuedAt))
	require.NoError(t, NewGormInvoiceRepository(db).Create(context.Background(), invoice))
	return invoice
}

func ptr[T any](v T) *T {
	return &v
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
