package catalog

import (
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filterable author fields
const (
	AuthorFirstName shared.Field = "first_name"
	AuthorLastName  shared.Field = "last_name"
	AuthorBooks     shared.Field = "books"
)

// Filterable book fields
const (
	BookTitle           shared.Field = "title"
	BookAuthorID        shared.Field = "author_id"
	BookAuthorFirstName shared.Field = "author.first_name"
	BookAuthorLastName  shared.Field = "author.last_name"
	BookPrice           shared.Field = "price"
	BookStock           shared.Field = "stock"
)

// AuthorFilter holds the optional author list criteria
type AuthorFilter struct {
	FirstName *string
	LastName  *string
	HasBooks  *bool
}

// Spec builds the predicate for the filter
func (f AuthorFilter) Spec() shared.Spec {
	var s shared.Spec
	if v, ok := shared.TextFilter(f.FirstName); ok {
		s = s.And(shared.Contains(AuthorFirstName, v))
	}
	if v, ok := shared.TextFilter(f.LastName); ok {
		s = s.And(shared.Contains(AuthorLastName, v))
	}
	if f.HasBooks != nil {
		s = s.And(shared.Has(AuthorBooks, *f.HasBooks))
	}
	return s
}

// BookFilter holds the optional book list criteria
type BookFilter struct {
	Title      *string
	AuthorName *string
	AuthorID   *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Available  *bool
}

// Spec builds the predicate for the filter
func (f BookFilter) Spec() shared.Spec {
	var s shared.Spec
	if v, ok := shared.TextFilter(f.Title); ok {
		s = s.And(shared.Contains(BookTitle, v))
	}
	if v, ok := shared.TextFilter(f.AuthorName); ok {
		s = s.And(shared.NameWords(v, BookAuthorFirstName, BookAuthorLastName))
	}
	if f.AuthorID != nil {
		s = s.And(shared.Eq(BookAuthorID, *f.AuthorID))
	}
	if f.MinPrice != nil {
		s = s.And(shared.Gte(BookPrice, *f.MinPrice))
	}
	if f.MaxPrice != nil {
		s = s.And(shared.Lte(BookPrice, *f.MaxPrice))
	}
	if f.Available != nil {
		if *f.Available {
			s = s.And(shared.Gte(BookStock, 1))
		} else {
			s = s.And(shared.Lte(BookStock, 0))
		}
	}
	return s
}

// BookExpand selects the relations loaded with a book
type BookExpand struct {
	Author bool
}
