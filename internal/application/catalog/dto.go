package catalog

import (
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Author DTOs
// =============================================================================

// AuthorRequest represents a request to create or update an author
type AuthorRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

// AuthorResponse represents an author in API responses
type AuthorResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AuthorListFilter represents filter options for the author list
type AuthorListFilter struct {
	FirstName *string
	LastName  *string
	HasBooks  *bool
	Page      int
	PageSize  int
}

func (f AuthorListFilter) domain() (catalog.AuthorFilter, shared.PageRequest) {
	return catalog.AuthorFilter{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		HasBooks:  f.HasBooks,
	}, shared.NewPageRequest(f.Page, f.PageSize)
}

// ToAuthorResponse converts a domain Author to AuthorResponse
func ToAuthorResponse(a *catalog.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// =============================================================================
// Book DTOs
// =============================================================================

// BookRequest represents a request to create or update a book
type BookRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	PublicationYear *int            `json:"publication_year" binding:"omitempty,min=1"`
	Description     string          `json:"description" binding:"max=2000"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock" binding:"min=0"`
	AuthorID        int64           `json:"author_id" binding:"required,min=1"`
}

func (r BookRequest) details() catalog.BookDetails {
	return catalog.BookDetails{
		Title:           r.Title,
		PublicationYear: r.PublicationYear,
		Description:     r.Description,
		Price:           r.Price,
		Stock:           r.Stock,
		AuthorID:        r.AuthorID,
	}
}

// BookResponse represents a book in API responses
type BookResponse struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	PublicationYear *int            `json:"publication_year,omitempty"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	AuthorID        int64           `json:"author_id"`
	Author          *AuthorResponse `json:"author,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// BookListFilter represents filter options for the book list
type BookListFilter struct {
	Title      *string
	AuthorName *string
	AuthorID   *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Available  *bool
	Page       int
	PageSize   int
	Expand     catalog.BookExpand
}

func (f BookListFilter) domain() (catalog.BookFilter, shared.PageRequest) {
	return catalog.BookFilter{
		Title:      f.Title,
		AuthorName: f.AuthorName,
		AuthorID:   f.AuthorID,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		Available:  f.Available,
	}, shared.NewPageRequest(f.Page, f.PageSize)
}

// ToBookResponse converts a domain Book to BookResponse
func ToBookResponse(b *catalog.Book) BookResponse {
	resp := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		Description:     b.Description,
		Price:           b.Price,
		Stock:           b.Stock,
		AuthorID:        b.AuthorID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Author != nil {
		author := ToAuthorResponse(b.Author)
		resp.Author = &author
	}
	return resp
}

// ParseBookExpand parses a comma separated expand parameter. Only "author" is known.
func ParseBookExpand(raw string) (catalog.BookExpand, error) {
	var expand catalog.BookExpand
	for _, token := range strings.Split(raw, ",") {
		switch strings.TrimSpace(token) {
		case "":
		case "author":
			expand.Author = true
		default:
			return expand, shared.NewValidationError("INVALID_EXPAND", "Unknown expand value: "+strings.TrimSpace(token))
		}
	}
	return expand, nil
}
