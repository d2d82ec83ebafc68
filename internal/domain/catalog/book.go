package catalog

import (
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Book is a catalog item with a price and a stock level
type Book struct {
	shared.BaseEntity
	Title           string          `json:"title"`
	PublicationYear *int            `json:"publication_year,omitempty"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	AuthorID        int64           `json:"author_id"`

	// Author is only populated when the read asked for it
	Author *Author `json:"author,omitempty"`
}

// BookDetails carries the caller-editable fields of a book
type BookDetails struct {
	Title           string
	PublicationYear *int
	Description     string
	Price           decimal.Decimal
	Stock           int
	AuthorID        int64
}

// NewBook creates a new book
func NewBook(d BookDetails, now time.Time) (*Book, error) {
	d.Title = strings.TrimSpace(d.Title)
	if err := d.validate(now); err != nil {
		return nil, err
	}
	b := &Book{BaseEntity: shared.NewBaseEntity(now)}
	b.apply(d)
	return b, nil
}

// Update replaces the editable fields of the book
func (b *Book) Update(d BookDetails, now time.Time) error {
	d.Title = strings.TrimSpace(d.Title)
	if err := d.validate(now); err != nil {
		return err
	}
	b.apply(d)
	b.Touch(now)
	return nil
}

func (b *Book) apply(d BookDetails) {
	b.Title = d.Title
	b.PublicationYear = d.PublicationYear
	b.Description = d.Description
	b.Price = d.Price
	b.Stock = d.Stock
	b.AuthorID = d.AuthorID
}

// HasStock reports whether qty units can be taken from the book
func (b *Book) HasStock(qty int) bool {
	return qty <= b.Stock
}

// DecreaseStock takes qty units out of stock
func (b *Book) DecreaseStock(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !b.HasStock(qty) {
		return InsufficientStock(b, qty, b.Stock)
	}
	b.Stock -= qty
	return nil
}

// IncreaseStock puts qty units back into stock
func (b *Book) IncreaseStock(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += qty
	return nil
}

// InsufficientStock builds the business-rule error raised when a request asks for more than is available
func InsufficientStock(b *Book, requested, available int) *shared.DomainError {
	return shared.ErrInsufficientStock.WithMessagef(
		"insufficient stock for book %d %q: requested %d, available: %d",
		b.ID, b.Title, requested, available,
	)
}

// Book errors
var (
	ErrInvalidQuantity = shared.NewValidationError("INVALID_QUANTITY", "Quantity must be greater than zero")
	ErrInvalidPrice    = shared.NewBusinessRuleError("INVALID_PRICE", "Book price must be greater than zero")
)

func (d BookDetails) validate(now time.Time) error {
	if d.Title == "" {
		return shared.NewValidationError("INVALID_TITLE", "Book title cannot be empty")
	}
	if len(d.Title) > 200 {
		return shared.NewValidationError("INVALID_TITLE", "Book title cannot exceed 200 characters")
	}
	if d.AuthorID <= 0 {
		return shared.NewValidationError("INVALID_AUTHOR", "Book author id must be a positive integer")
	}
	if d.PublicationYear != nil && (*d.PublicationYear < 1 || *d.PublicationYear > now.Year()+1) {
		return shared.NewValidationError("INVALID_YEAR", "Book publication year is out of range")
	}
	if d.Stock < 0 {
		return shared.NewValidationError("INVALID_STOCK", "Book stock cannot be negative")
	}
	if !d.Price.Equal(d.Price.Round(2)) {
		return shared.NewValidationError("INVALID_PRICE", "Book price cannot have more than 2 decimal places")
	}
	if !d.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
