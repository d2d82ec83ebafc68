package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBookstoreReportRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	repo := NewGormBookstoreReportRepository(db)

	herbert := seedAuthor(t, db, "Frank", "Herbert")
	austen := seedAuthor(t, db, "Jane", "Austen")
	seedAuthor(t, db, "Zadie", "Smith")
	dune := seedBook(t, db, herbert.ID, "Dune", "20.00", 50)
	messiah := seedBook(t, db, herbert.ID, "Dune Messiah", "15.50", 50)
	emma := seedBook(t, db, austen.ID, "Emma", "9.99", 50)

	alice := seedCustomer(t, db, "Alice", "Smith", "alice@example.com")
	seedCustomer(t, db, "Bob", "Jones", "bob@example.com")

	friday := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	saturday := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	first := seedInvoice(t, db, alice.ID, friday, lineSeed{dune, 2}, lineSeed{messiah, 1})
	second := seedInvoice(t, db, alice.ID, friday.Add(time.Hour), lineSeed{emma, 3})
	third := seedInvoice(t, db, alice.ID, saturday, lineSeed{dune, 1})

	t.Run("author book counts include authors without books", func(t *testing.T) {
		rows, err := repo.AuthorBookCounts(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "Frank Herbert", rows[0].FullName)
		assert.Equal(t, int64(2), rows[0].BookCount)
		assert.Equal(t, "Jane Austen", rows[1].FullName)
		assert.Equal(t, int64(1), rows[1].BookCount)
		assert.Equal(t, "Zadie Smith", rows[2].FullName)
		assert.Equal(t, int64(0), rows[2].BookCount)
	})

	t.Run("customer totals include customers without invoices", func(t *testing.T) {
		rows, err := repo.CustomerInvoiceTotals(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "Alice Smith", rows[0].FullName)
		assert.Equal(t, int64(3), rows[0].InvoiceCount)
		// 55.50 + 29.97 + 20.00
		assert.True(t, mustDecimal("105.47").Equal(rows[0].TotalBilled), rows[0].TotalBilled.String())
		assert.Equal(t, "Bob Jones", rows[1].FullName)
		assert.Equal(t, int64(0), rows[1].InvoiceCount)
		assert.True(t, rows[1].TotalBilled.IsZero())
	})

	t.Run("daily revenue groups by issue day without double counting lines", func(t *testing.T) {
		rows, err := repo.DailyRevenue(ctx, report.DateRange{})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
		assert.Equal(t, "Friday", rows[0].Weekday)
		assert.Equal(t, int64(2), rows[0].InvoiceCount)
		assert.True(t, mustDecimal("85.47").Equal(rows[0].Revenue), rows[0].Revenue.String())
		assert.Equal(t, int64(6), rows[0].BooksSold)

		assert.Equal(t, "Saturday", rows[1].Weekday)
		assert.Equal(t, int64(1), rows[1].InvoiceCount)
		assert.True(t, mustDecimal("20").Equal(rows[1].Revenue))
		assert.Equal(t, int64(1), rows[1].BooksSold)
	})

	t.Run("daily revenue honours an inclusive date range", func(t *testing.T) {
		day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		rows, err := repo.DailyRevenue(ctx, report.DateRange{From: &day, To: &day})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Saturday", rows[0].Weekday)

		before := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		rows, err = repo.DailyRevenue(ctx, report.DateRange{To: &before})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("invoice summaries are newest first", func(t *testing.T) {
		rows, err := repo.InvoiceSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{rows[0].InvoiceID, rows[1].InvoiceID, rows[2].InvoiceID})
		assert.Equal(t, "Alice Smith", rows[0].CustomerName)
		assert.True(t, saturday.Equal(rows[0].IssuedAt))
		assert.True(t, mustDecimal("55.50").Equal(rows[2].Total))
	})

	t.Run("line summaries carry the book title", func(t *testing.T) {
		rows, err := repo.InvoiceLineSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, first.ID, rows[0].InvoiceID)
		assert.Equal(t, "Dune", rows[0].BookTitle)
		assert.Equal(t, "Dune Messiah", rows[1].BookTitle)
		assert.Equal(t, 3, rows[2].Quantity)
		assert.True(t, mustDecimal("29.97").Equal(rows[2].Subtotal))
	})
}

func TestGormBookstoreReportRepository_Empty(t *testing.T) {
	repo := NewGormBookstoreReportRepository(newTestDatabase(t).DB)

	rows, err := repo.DailyRevenue(context.Background(), report.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	summaries, err := repo.InvoiceSummaries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestDayExpression(t *testing.T) {
	mockDB, _, _ := newMockGorm(t)
	repo := NewGormBookstoreReportRepository(mockDB)
	assert.Equal(t, "TO_CHAR(t.issued_at, 'YYYY-MM-DD')", repo.dayExpression("t.issued_at"))

	sqliteRepo := NewGormBookstoreReportRepository(newTestDatabase(t).DB)
	assert.Equal(t, "strftime('%Y-%m-%d', t.issued_at)", sqliteRepo.dayExpression("t.issued_at"))
}
