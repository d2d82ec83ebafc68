package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	invoicingapp "github.com/bookstore/backend/internal/application/invoicing"
	reportapp "github.com/bookstore/backend/internal/application/report"
	"github.com/bookstore/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seededOpen(t *testing.T) openFunc {
	t.Helper()

	store := testutil.NewStore(t)
	author := store.SeedAuthor(t, "Frank", "Herbert")
	dune := store.SeedBook(t, author.ID, "Dune", "20.00", 10)
	customer := store.SeedCustomer(t, "Alice", "Smith", "alice@example.com")

	invoices := invoicingapp.NewInvoiceService(store.Factory, testutil.FixedClock(testutil.Now), zap.NewNop())
	_, err := invoices.Create(context.Background(), invoicingapp.CreateInvoiceRequest{
		CustomerID: customer.ID,
		Lines:      []invoicingapp.InvoiceLineRequest{{BookID: dune.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	return func() (*reportapp.ReportService, func() error, error) {
		return reportapp.NewReportService(store.Reports(), zap.NewNop()), nil, nil
	}
}

func run(t *testing.T, open openFunc, args ...string) ([]map[string]any, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows), out.String())
	return rows, nil
}

func TestReportCommands(t *testing.T) {
	open := seededOpen(t)

	t.Run("authors", func(t *testing.T) {
		rows, err := run(t, open, "authors")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Frank Herbert", rows[0]["full_name"])
		assert.Equal(t, float64(1), rows[0]["book_count"])
	})

	t.Run("customers", func(t *testing.T) {
		rows, err := run(t, open, "customers", "--pretty")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "60", rows[0]["total_billed"])
	})

	t.Run("daily within range", func(t *testing.T) {
		rows, err := run(t, open, "daily", "--from", "2024-03-01", "--to", "2024-03-01")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Friday", rows[0]["weekday"])
		assert.Equal(t, float64(3), rows[0]["books_sold"])
	})

	t.Run("daily outside range", func(t *testing.T) {
		rows, err := run(t, open, "daily", "--from", "2024-03-02")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("invoices and lines", func(t *testing.T) {
		rows, err := run(t, open, "invoices")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Alice Smith", rows[0]["customer_name"])

		rows, err = run(t, open, "lines")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Dune", rows[0]["book_title"])
		assert.Equal(t, "60", rows[0]["subtotal"])
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := run(t, open, "daily", "--from", "03/01/2024")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--from must be a date")
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := run(t, open, "daily", "--from", "2024-03-02", "--to", "2024-03-01")
		require.Error(t, err)
		assert.ErrorIs(t, err, reportapp.ErrInvalidDateRange)
	})
}

func TestOpenFailure(t *testing.T) {
	failing := func() (*reportapp.ReportService, func() error, error) {
		return nil, nil, errors.New("failed to connect to database")
	}
	_, err := run(t, failing, "authors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}
