package catalog

import (
	"context"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
)

// BookService handles book-related business operations
type BookService struct {
	uow uow.Factory
	now shared.Clock
}

// NewBookService creates a new BookService. A nil clock uses UTC wall time.
func NewBookService(factory uow.Factory, clock shared.Clock) *BookService {
	if clock == nil {
		clock = shared.UTCNow
	}
	return &BookService{
		uow: factory,
		now: clock,
	}
}

// Create creates a new book for an existing author
func (s *BookService) Create(ctx context.Context, req BookRequest) (*BookResponse, error) {
	book, err := catalog.NewBook(req.details(), s.now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if err := requireAuthor(ctx, repos, book.AuthorID); err != nil {
			return err
		}
		if err := repos.Books().Create(ctx, book); err != nil {
			return err
		}
		book, err = repos.Books().FindByID(ctx, book.ID, catalog.BookExpand{Author: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToBookResponse(book)
	return &response, nil
}

// GetByID retrieves a book by ID
func (s *BookService) GetByID(ctx context.Context, id int64, expand catalog.BookExpand) (*BookResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var book *catalog.Book
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		book, err = repos.Books().FindByID(ctx, id, expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToBookResponse(book)
	return &response, nil
}

// List retrieves a page of books matching the filter
func (s *BookService) List(ctx context.Context, filter BookListFilter) (*shared.Page[BookResponse], error) {
	domainFilter, page := filter.domain()
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result *shared.Page[catalog.Book]
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = repos.Books().List(ctx, domainFilter, page, filter.Expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	return shared.MapPage(result, func(b catalog.Book) BookResponse {
		return ToBookResponse(&b)
	}), nil
}

// Update replaces the editable fields of a book
func (s *BookService) Update(ctx context.Context, id int64, req BookRequest) (*BookResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var book *catalog.Book
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		book, err = repos.Books().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := book.Update(req.details(), s.now()); err != nil {
			return err
		}
		if err := requireAuthor(ctx, repos, book.AuthorID); err != nil {
			return err
		}
		if err := repos.Books().Update(ctx, book); err != nil {
			return err
		}
		book, err = repos.Books().FindByID(ctx, id, catalog.BookExpand{Author: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToBookResponse(book)
	return &response, nil
}

// Delete deletes a book that no invoice line references
func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Books().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		invoiced, err := repos.InvoiceLines().ExistsForBook(ctx, id)
		if err != nil {
			return err
		}
		if invoiced {
			return shared.ErrHasDependents.WithMessagef("book %d is referenced by invoice lines", id)
		}
		return repos.Books().Delete(ctx, id)
	})
}

func requireAuthor(ctx context.Context, repos uow.Repositories, authorID int64) error {
	exists, err := repos.Authors().ExistsByID(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound.WithMessagef("author %d not found", authorID)
	}
	return nil
}
