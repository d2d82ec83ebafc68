package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsForeignKeyViolation(t *testing.T) {
	db := newTestDatabase(t).DB
	author := seedAuthor(t, db, "Frank", "Herbert")
	book := seedBook(t, db, author.ID, "Dune", "9.99", 1)

	t.Run("restricted delete of a referenced row", func(t *testing.T) {
		err := db.Exec("DELETE FROM authors WHERE id = ?", author.ID).Error
		require.Error(t, err)
		assert.True(t, isForeignKeyViolation(err))
		assert.True(t, isForeignKeyViolation(fmt.Errorf("delete author: %w", err)))
	})

	t.Run("insert referencing a missing row", func(t *testing.T) {
		err := db.Exec(
			"INSERT INTO books (title, price, stock, author_id, created_at) VALUES (?, ?, ?, ?, ?)",
			"Orphan", "1.00", 1, 999, testNow,
		).Error
		require.Error(t, err)
		assert.True(t, isForeignKeyViolation(err))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.False(t, isForeignKeyViolation(nil))
		assert.False(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
		assert.False(t, isForeignKeyViolation(db.Exec("SELECT * FROM missing_table").Error))
		assert.True(t, isForeignKeyViolation(gorm.ErrForeignKeyViolated))
	})

	t.Run("unreferenced row deletes", func(t *testing.T) {
		require.NoError(t, db.Exec("DELETE FROM books WHERE id = ?", book.ID).Error)
		require.NoError(t, db.Exec("DELETE FROM authors WHERE id = ?", author.ID).Error)
	})
}

func TestRepositoryDelete_ReferencedRowsHaveDependents(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	author := seedAuthor(t, db, "Frank", "Herbert")
	dune := seedBook(t, db, author.ID, "Dune", "20.00", 5)
	customer := seedCustomer(t, db, "Alice", "Smith", "alice@example.com")
	seedInvoice(t, db, customer.ID, testNow, lineSeed{dune, 1})

	err := NewGormAuthorRepository(db).Delete(ctx, author.ID)
	assert.ErrorIs(t, err, shared.ErrHasDependents)
	assert.True(t, shared.IsKind(err, shared.KindBusinessRule))

	err = NewGormCustomerRepository(db).Delete(ctx, customer.ID)
	assert.ErrorIs(t, err, shared.ErrHasDependents)

	err = NewGormBookRepository(db).Delete(ctx, dune.ID)
	assert.ErrorIs(t, err, shared.ErrHasDependents)
}

func TestSQLiteLower_FoldsUnicode(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB

	var lowered string
	require.NoError(t, db.Raw("SELECT LOWER(?)", "CIEN AÑOS ÉTÉ").Scan(&lowered).Error)
	assert.Equal(t, "cien años été", lowered)

	var isNull int64
	require.NoError(t, db.Raw("SELECT CASE WHEN LOWER(NULL) IS NULL THEN 1 ELSE 0 END").Scan(&isNull).Error)
	assert.Equal(t, int64(1), isNull, "NULL stays NULL")

	author := seedAuthor(t, db, "Gabriel", "GARCÍA MÁRQUEZ")
	seedBook(t, db, author.ID, "CIEN AÑOS DE SOLEDAD", "15.00", 3)
	seedBook(t, db, author.ID, "El otoño del patriarca", "12.00", 3)
	seedCustomer(t, db, "Íñigo", "Ñúñez", "inigo@example.com")

	books := NewGormBookRepository(db)
	tests := []struct {
		name   string
		filter catalog.BookFilter
		want   int64
	}{
		{"accented lower case matches upper case title", catalog.BookFilter{Title: ptr("años")}, 1},
		{"accented upper case matches mixed case title", catalog.BookFilter{Title: ptr("OTOÑO")}, 1},
		{"ascii still matches", catalog.BookFilter{Title: ptr("cien")}, 1},
		{"author name with accents", catalog.BookFilter{AuthorName: ptr("garcía márquez")}, 2},
		{"accents are not stripped", catalog.BookFilter{Title: ptr("anos")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := books.List(ctx, tt.filter, shared.DefaultPageRequest(), catalog.BookExpand{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.TotalCount)
		})
	}

	customers, err := NewGormCustomerRepository(db).List(ctx, partner.CustomerFilter{LastName: ptr("ñúñ")}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), customers.TotalCount)
}
