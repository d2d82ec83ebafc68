package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T) (*GormUnitOfWorkFactory, *Database) {
	t.Helper()
	db := newTestDatabase(t)
	factory, err := NewGormUnitOfWorkFactory(db.DB)
	require.NoError(t, err)
	return factory, db
}

func countRows(t *testing.T, db *Database, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}

func TestNewGormUnitOfWorkFactory_RegistersCallbacksOnce(t *testing.T) {
	db := newTestDatabase(t)

	_, err := NewGormUnitOfWorkFactory(db.DB)
	require.NoError(t, err)
	_, err = NewGormUnitOfWorkFactory(db.DB)
	require.NoError(t, err)

	assert.NotNil(t, db.DB.Callback().Create().Get(rowCounterCallback))
	assert.NotNil(t, db.DB.Callback().Update().Get(rowCounterCallback))
	assert.NotNil(t, db.DB.Callback().Delete().Get(rowCounterCallback))
}

func TestGormUnitOfWork_Commit(t *testing.T) {
	ctx := context.Background()
	factory, db := newTestFactory(t)

	unit, err := factory.Begin(ctx)
	require.NoError(t, err)

	author, err := catalog.NewAuthor("Frank", "Herbert", testNow)
	require.NoError(t, err)
	require.NoError(t, unit.Authors().Create(ctx, author))

	book, err := catalog.NewBook(catalog.BookDetails{Title: "Dune", Price: mustDecimal("9.99"), Stock: 5, AuthorID: author.ID}, testNow)
	require.NoError(t, err)
	require.NoError(t, unit.Books().Create(ctx, book))
	require.NoError(t, unit.Books().DecreaseStock(ctx, book.ID, 2))

	// reads inside the unit see its own pending writes
	pending, err := unit.Books().FindByID(ctx, book.ID, catalog.BookExpand{Author: true})
	require.NoError(t, err)
	assert.Equal(t, 3, pending.Stock)
	assert.Equal(t, "Herbert", pending.Author.LastName)

	rows, err := unit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	assert.Equal(t, int64(1), countRows(t, db, &models.BookModel{}))

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		assert.NoError(t, unit.Rollback())
	})

	t.Run("second commit fails", func(t *testing.T) {
		_, err := unit.Commit()
		assert.ErrorIs(t, err, uow.ErrClosed)
	})
}

func TestGormUnitOfWork_RepositoriesAreMemoized(t *testing.T) {
	factory, _ := newTestFactory(t)
	unit, err := factory.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = unit.Rollback() }()

	assert.Same(t, unit.Authors(), unit.Authors())
	assert.Same(t, unit.Books(), unit.Books())
	assert.Same(t, unit.Customers(), unit.Customers())
	assert.Same(t, unit.Invoices(), unit.Invoices())
	assert.Same(t, unit.InvoiceLines(), unit.InvoiceLines())
}

func TestGormUnitOfWork_Rollback(t *testing.T) {
	ctx := context.Background()
	factory, db := newTestFactory(t)

	unit, err := factory.Begin(ctx)
	require.NoError(t, err)
	author, err := catalog.NewAuthor("Frank", "Herbert", testNow)
	require.NoError(t, err)
	require.NoError(t, unit.Authors().Create(ctx, author))
	require.NoError(t, unit.Rollback())

	assert.Zero(t, countRows(t, db, &models.AuthorModel{}))

	_, err = unit.Commit()
	assert.ErrorIs(t, err, uow.ErrClosed)
}

func TestGormUnitOfWorkFactory_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		factory, db := newTestFactory(t)

		err := factory.Execute(ctx, func(repos uow.Repositories) error {
			author, err := catalog.NewAuthor("Frank", "Herbert", testNow)
			if err != nil {
				return err
			}
			return repos.Authors().Create(ctx, author)
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), countRows(t, db, &models.AuthorModel{}))
	})

	t.Run("rolls back every write when fn fails", func(t *testing.T) {
		factory, db := newTestFactory(t)
		author := seedAuthor(t, db.DB, "Frank", "Herbert")
		book := seedBook(t, db.DB, author.ID, "Dune", "9.99", 5)

		err := factory.Execute(ctx, func(repos uow.Repositories) error {
			if err := repos.Books().DecreaseStock(ctx, book.ID, 2); err != nil {
				return err
			}
			return repos.Books().DecreaseStock(ctx, book.ID, 10)
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		reloaded, err := NewGormBookRepository(db.DB).FindByID(ctx, book.ID, catalog.BookExpand{})
		require.NoError(t, err)
		assert.Equal(t, 5, reloaded.Stock)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		factory, db := newTestFactory(t)

		assert.PanicsWithValue(t, "boom", func() {
			_ = factory.Execute(ctx, func(repos uow.Repositories) error {
				author, _ := catalog.NewAuthor("Frank", "Herbert", testNow)
				_ = repos.Authors().Create(ctx, author)
				panic("boom")
			})
		})
		assert.Zero(t, countRows(t, db, &models.AuthorModel{}))
	})

	t.Run("returns fn error untouched", func(t *testing.T) {
		factory, _ := newTestFactory(t)
		sentinel := errors.New("stop")

		err := factory.Execute(ctx, func(uow.Repositories) error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
	})
}
