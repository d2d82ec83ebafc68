package partner

import (
	"context"
	"testing"

	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/bookstore/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CRUD(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewCustomerService(store.Factory, testutil.FixedClock(testutil.Now))

	created, err := svc.Create(ctx, CustomerRequest{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.COM "})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, "Ada Lovelace", created.FullName)

	updated, err := svc.Update(ctx, created.ID, CustomerRequest{FirstName: "Ada", LastName: "King", Email: "ada@king.org"})
	require.NoError(t, err)
	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, "ada@king.org", updated.Email)
	require.NotNil(t, updated.UpdatedAt)

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@king.org", found.Email)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_Errors(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewCustomerService(store.Factory, testutil.FixedClock(testutil.Now))

	t.Run("malformed email is a validation error", func(t *testing.T) {
		_, err := svc.Create(ctx, CustomerRequest{FirstName: "A", LastName: "B", Email: "not-an-email"})
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	t.Run("missing customer is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, 42, CustomerRequest{FirstName: "A", LastName: "B", Email: "a@b.io"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, 42), shared.ErrNotFound)
	})

	t.Run("invoiced customer cannot be deleted", func(t *testing.T) {
		author := store.SeedAuthor(t, "Frank", "Herbert")
		book := store.SeedBook(t, author.ID, "Dune", "20.00", 5)
		customer := store.SeedCustomer(t, "Alice", "Smith", "alice@example.com")

		invoice, err := invoicing.NewInvoice(customer.ID, testutil.Now)
		require.NoError(t, err)
		_, err = invoice.AddLine(book, 1)
		require.NoError(t, err)
		require.NoError(t, invoice.Issue(testutil.Now))
		require.NoError(t, persistence.NewGormInvoiceRepository(store.DB.DB).Create(ctx, invoice))

		err = svc.Delete(ctx, customer.ID)
		assert.ErrorIs(t, err, shared.ErrHasDependents)
		assert.Contains(t, err.Error(), "1 invoice(s)")
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewCustomerService(store.Factory, nil)

	store.SeedCustomer(t, "Bob", "Jones", "bob@example.org")
	store.SeedCustomer(t, "Alice", "Smith", "alice@example.com")
	store.SeedCustomer(t, "Carol", "Smithers", "carol@example.com")

	page, err := svc.List(ctx, CustomerListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Alice", page.Items[0].FirstName)

	last := "SMITH"
	page, err = svc.List(ctx, CustomerListFilter{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)

	email := ".org"
	page, err = svc.List(ctx, CustomerListFilter{Email: &email})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bob", page.Items[0].FirstName)

	blank := "   "
	page, err = svc.List(ctx, CustomerListFilter{FirstName: &blank})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)

	page, err = svc.List(ctx, CustomerListFilter{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.False(t, page.HasNextPage)
}
