package catalog

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
)

// AuthorRepository defines the interface for author persistence
type AuthorRepository interface {
	// FindByID finds an author by ID, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id int64) (*Author, error)

	// ExistsByID checks whether an author exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// CountBooks counts the books owned by an author
	CountBooks(ctx context.Context, id int64) (int64, error)

	// List returns one page of authors matching the filter, ordered by first name then id
	List(ctx context.Context, filter AuthorFilter, page shared.PageRequest) (*shared.Page[Author], error)

	// Create inserts an author and assigns its ID
	Create(ctx context.Context, author *Author) error

	// Update saves an existing author
	Update(ctx context.Context, author *Author) error

	// Delete removes an author by ID
	Delete(ctx context.Context, id int64) error
}

// BookRepository defines the interface for book persistence
type BookRepository interface {
	// FindByID finds a book by ID, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id int64, expand BookExpand) (*Book, error)

	// FindByIDForUpdate finds a book and locks its row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Book, error)

	// List returns one page of books matching the filter, ordered by id
	List(ctx context.Context, filter BookFilter, page shared.PageRequest, expand BookExpand) (*shared.Page[Book], error)

	// Create inserts a book and assigns its ID
	Create(ctx context.Context, book *Book) error

	// Update saves an existing book
	Update(ctx context.Context, book *Book) error

	// Delete removes a book by ID
	Delete(ctx context.Context, id int64) error

	// DecreaseStock subtracts qty only when at least qty units remain.
	// It returns shared.ErrInsufficientStock when the guarded update matched no row.
	DecreaseStock(ctx context.Context, id int64, qty int) error

	// IncreaseStock adds qty units back
	IncreaseStock(ctx context.Context, id int64, qty int) error
}
