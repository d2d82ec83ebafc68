// Package testutil provides common test utilities for the bookstore backend.
// It contains helpers for setting up SQLite backed stores, seeding entities
// and driving gin handlers.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Now is the fixed time used by FixedClock in tests
var Now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// Store bundles a migrated database with a unit of work factory over it.
type Store struct {
	DB      *persistence.Database
	Factory *persistence.GormUnitOfWorkFactory
}

// NewStore opens a private in-memory SQLite store. It is closed when the test ends.
func NewStore(t *testing.T) *Store {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err, "Failed to open SQLite store")
	t.Cleanup(func() { _ = db.Close() })

	return NewStoreFor(t, db)
}

// NewStoreFor wraps an already opened database
func NewStoreFor(t *testing.T, db *persistence.Database) *Store {
	t.Helper()

	factory, err := persistence.NewGormUnitOfWorkFactory(db.DB)
	require.NoError(t, err, "Failed to create unit of work factory")

	return &Store{DB: db, Factory: factory}
}

// Reports returns the report repository over the store
func (s *Store) Reports() *persistence.GormBookstoreReportRepository {
	return persistence.NewGormBookstoreReportRepository(s.DB.DB)
}

// FixedClock returns a clock that always reports now
func FixedClock(now time.Time) shared.Clock {
	return func() time.Time { return now }
}

// SeedAuthor inserts an author
func (s *Store) SeedAuthor(t *testing.T, first, last string) *catalog.Author {
	t.Helper()

	author, err := catalog.NewAuthor(first, last, Now)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormAuthorRepository(s.DB.DB).Create(context.Background(), author))
	return author
}

// SeedBook inserts a book priced at price with the given stock
func (s *Store) SeedBook(t *testing.T, authorID int64, title, price string, stock int) *catalog.Book {
	t.Helper()

	book, err := catalog.NewBook(catalog.BookDetails{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		AuthorID: authorID,
	}, Now)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormBookRepository(s.DB.DB).Create(context.Background(), book))
	return book
}

// SeedCustomer inserts a customer
func (s *Store) SeedCustomer(t *testing.T, first, last, email string) *partner.Customer {
	t.Helper()

	customer, err := partner.NewCustomer(first, last, email, Now)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(s.DB.DB).Create(context.Background(), customer))
	return customer
}

// Stock reads the current stock of a book
func (s *Store) Stock(t *testing.T, bookID int64) int {
	t.Helper()

	book, err := persistence.NewGormBookRepository(s.DB.DB).FindByID(context.Background(), bookID, catalog.BookExpand{})
	require.NoError(t, err)
	return book.Stock
}

// CountRows counts the rows of a table
func (s *Store) CountRows(t *testing.T, table string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, s.DB.DB.Table(table).Count(&count).Error)
	return count
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}
