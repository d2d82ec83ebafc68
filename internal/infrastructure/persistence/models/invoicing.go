package models

import (
	"time"

	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	BaseModel
	CustomerID int64              `gorm:"not null;index"`
	IssuedAt   time.Time          `gorm:"not null;index"`
	Total      decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Customer   *CustomerModel     `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:RESTRICT"`
	Lines      []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// Lines and customer are carried over only when they were preloaded.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		IssuedAt:   m.IssuedAt,
		Total:      m.Total,
	}
	if m.Customer != nil {
		inv.Customer = m.Customer.ToDomain()
	}
	if len(m.Lines) > 0 {
		inv.Lines = make([]invoicing.InvoiceLine, len(m.Lines))
		for i := range m.Lines {
			inv.Lines[i] = *m.Lines[i].ToDomain()
		}
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice, lines included.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.CustomerID = inv.CustomerID
	m.IssuedAt = inv.IssuedAt
	m.Total = inv.Total
	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i := range inv.Lines {
		m.Lines[i].FromDomain(&inv.Lines[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceLineModel is the persistence model for an invoice line.
type InvoiceLineModel struct {
	BaseModel
	InvoiceID int64           `gorm:"not null;index"`
	BookID    int64           `gorm:"not null;index"`
	Quantity  int             `gorm:"not null;check:chk_invoice_lines_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Book      *BookModel      `gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain InvoiceLine.
func (m *InvoiceLineModel) ToDomain() *invoicing.InvoiceLine {
	line := &invoicing.InvoiceLine{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		BookID:     m.BookID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Subtotal:   m.Subtotal,
	}
	if m.Book != nil {
		line.Book = m.Book.ToDomain()
	}
	return line
}

// FromDomain populates the persistence model from a domain InvoiceLine.
func (m *InvoiceLineModel) FromDomain(line *invoicing.InvoiceLine) {
	m.FromDomainBaseEntity(line.BaseEntity)
	m.InvoiceID = line.InvoiceID
	m.BookID = line.BookID
	m.Quantity = line.Quantity
	m.UnitPrice = line.UnitPrice
	m.Subtotal = line.Subtotal
}
