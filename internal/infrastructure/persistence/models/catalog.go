package models

import (
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// AuthorModel is the persistence model for the Author domain entity.
type AuthorModel struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100);not null;index"`
	LastName  string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (AuthorModel) TableName() string {
	return "authors"
}

// ToDomain converts the persistence model to a domain Author entity.
func (m *AuthorModel) ToDomain() *catalog.Author {
	return &catalog.Author{
		BaseEntity: m.BaseModel.ToDomain(),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
	}
}

// FromDomain populates the persistence model from a domain Author entity.
func (m *AuthorModel) FromDomain(a *catalog.Author) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.FirstName = a.FirstName
	m.LastName = a.LastName
}

// AuthorModelFromDomain creates a new persistence model from a domain Author entity.
func AuthorModelFromDomain(a *catalog.Author) *AuthorModel {
	m := &AuthorModel{}
	m.FromDomain(a)
	return m
}

// BookModel is the persistence model for the Book domain entity.
type BookModel struct {
	BaseModel
	Title           string          `gorm:"type:varchar(200);not null;index"`
	PublicationYear *int            `gorm:"type:integer"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock           int             `gorm:"not null;default:0;check:chk_books_stock,stock >= 0"`
	AuthorID        int64           `gorm:"not null;index"`
	Author          *AuthorModel    `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (BookModel) TableName() string {
	return "books"
}

// ToDomain converts the persistence model to a domain Book entity.
// The author is carried over only when it was preloaded.
func (m *BookModel) ToDomain() *catalog.Book {
	b := &catalog.Book{
		BaseEntity:      m.BaseModel.ToDomain(),
		Title:           m.Title,
		PublicationYear: m.PublicationYear,
		Description:     m.Description,
		Price:           m.Price,
		Stock:           m.Stock,
		AuthorID:        m.AuthorID,
	}
	if m.Author != nil {
		b.Author = m.Author.ToDomain()
	}
	return b
}

// FromDomain populates the persistence model from a domain Book entity.
func (m *BookModel) FromDomain(b *catalog.Book) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Title = b.Title
	m.PublicationYear = b.PublicationYear
	m.Description = b.Description
	m.Price = b.Price
	m.Stock = b.Stock
	m.AuthorID = b.AuthorID
}

// BookModelFromDomain creates a new persistence model from a domain Book entity.
func BookModelFromDomain(b *catalog.Book) *BookModel {
	m := &BookModel{}
	m.FromDomain(b)
	return m
}
