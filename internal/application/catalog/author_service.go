package catalog

import (
	"context"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
)

// AuthorService handles author-related business operations
type AuthorService struct {
	uow uow.Factory
	now shared.Clock
}

// NewAuthorService creates a new AuthorService. A nil clock uses UTC wall time.
func NewAuthorService(factory uow.Factory, clock shared.Clock) *AuthorService {
	if clock == nil {
		clock = shared.UTCNow
	}
	return &AuthorService{
		uow: factory,
		now: clock,
	}
}

// Create creates a new author
func (s *AuthorService) Create(ctx context.Context, req AuthorRequest) (*AuthorResponse, error) {
	author, err := catalog.NewAuthor(req.FirstName, req.LastName, s.now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(repos uow.Repositories) error {
		return repos.Authors().Create(ctx, author)
	})
	if err != nil {
		return nil, err
	}

	response := ToAuthorResponse(author)
	return &response, nil
}

// GetByID retrieves an author by ID
func (s *AuthorService) GetByID(ctx context.Context, id int64) (*AuthorResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var author *catalog.Author
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		author, err = repos.Authors().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToAuthorResponse(author)
	return &response, nil
}

// List retrieves a page of authors matching the filter
func (s *AuthorService) List(ctx context.Context, filter AuthorListFilter) (*shared.Page[AuthorResponse], error) {
	domainFilter, page := filter.domain()
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result *shared.Page[catalog.Author]
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = repos.Authors().List(ctx, domainFilter, page)
		return err
	})
	if err != nil {
		return nil, err
	}

	return shared.MapPage(result, func(a catalog.Author) AuthorResponse {
		return ToAuthorResponse(&a)
	}), nil
}

// Update renames an existing author
func (s *AuthorService) Update(ctx context.Context, id int64, req AuthorRequest) (*AuthorResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var author *catalog.Author
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		author, err = repos.Authors().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := author.Rename(req.FirstName, req.LastName, s.now()); err != nil {
			return err
		}
		return repos.Authors().Update(ctx, author)
	})
	if err != nil {
		return nil, err
	}

	response := ToAuthorResponse(author)
	return &response, nil
}

// Delete deletes an author that no longer owns any book
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Authors().FindByID(ctx, id); err != nil {
			return err
		}
		books, err := repos.Authors().CountBooks(ctx, id)
		if err != nil {
			return err
		}
		if books > 0 {
			return shared.ErrHasDependents.WithMessagef("author %d still has %d book(s)", id, books)
		}
		return repos.Authors().Delete(ctx, id)
	})
}
