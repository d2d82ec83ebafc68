package invoicing

import (
	"strings"
	"time"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	partnerapp "github.com/bookstore/backend/internal/application/partner"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to bill a customer for a list of books.
// Lines are kept in caller order; the same book may appear on several lines.
type CreateInvoiceRequest struct {
	CustomerID int64                `json:"customer_id"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

// InvoiceLineRequest represents one requested line of a new invoice
type InvoiceLineRequest struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID         int64                        `json:"id"`
	CustomerID int64                        `json:"customer_id"`
	IssuedAt   time.Time                    `json:"issued_at"`
	Total      decimal.Decimal              `json:"total"`
	Customer   *partnerapp.CustomerResponse `json:"customer,omitempty"`
	Lines      []InvoiceLineResponse        `json:"lines,omitempty"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  *time.Time                   `json:"updated_at,omitempty"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	CustomerID   *int64
	CustomerName *string
	IssuedFrom   *time.Time
	IssuedTo     *time.Time
	MinTotal     *decimal.Decimal
	MaxTotal     *decimal.Decimal
	Page         int
	PageSize     int
	Expand       invoicing.InvoiceExpand
}

func (f InvoiceListFilter) domain() (invoicing.InvoiceFilter, shared.PageRequest) {
	return invoicing.InvoiceFilter{
		CustomerID:   f.CustomerID,
		CustomerName: f.CustomerName,
		IssuedFrom:   f.IssuedFrom,
		IssuedTo:     f.IssuedTo,
		MinTotal:     f.MinTotal,
		MaxTotal:     f.MaxTotal,
	}, shared.NewPageRequest(f.Page, f.PageSize)
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		IssuedAt:   inv.IssuedAt,
		Total:      inv.Total,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	if inv.Customer != nil {
		customer := partnerapp.ToCustomerResponse(inv.Customer)
		resp.Customer = &customer
	}
	if len(inv.Lines) > 0 {
		resp.Lines = make([]InvoiceLineResponse, len(inv.Lines))
		for i := range inv.Lines {
			resp.Lines[i] = ToInvoiceLineResponse(&inv.Lines[i])
		}
	}
	return resp
}

// ParseInvoiceExpand parses a comma separated expand parameter.
// Known values are "customer", "lines" and "lines.book"; "lines.book" implies "lines".
func ParseInvoiceExpand(raw string) (invoicing.InvoiceExpand, error) {
	var expand invoicing.InvoiceExpand
	for _, token := range strings.Split(raw, ",") {
		switch token = strings.TrimSpace(token); token {
		case "":
		case "customer":
			expand.Customer = true
		case "lines":
			expand.Lines = true
		case "lines.book":
			expand.Lines = true
			expand.LineBooks = true
		default:
			return expand, shared.NewValidationError("INVALID_EXPAND", "Unknown expand value: "+token)
		}
	}
	return expand, nil
}

// =============================================================================
// Invoice line DTOs
// =============================================================================

// UpdateLineRequest represents a quantity change on an existing invoice line
type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

// InvoiceLineResponse represents an invoice line in API responses
type InvoiceLineResponse struct {
	ID        int64                    `json:"id"`
	InvoiceID int64                    `json:"invoice_id"`
	BookID    int64                    `json:"book_id"`
	Quantity  int                      `json:"quantity"`
	UnitPrice decimal.Decimal          `json:"unit_price"`
	Subtotal  decimal.Decimal          `json:"subtotal"`
	Book      *catalogapp.BookResponse `json:"book,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt *time.Time               `json:"updated_at,omitempty"`
}

// LineListFilter represents filter options for the invoice line list
type LineListFilter struct {
	InvoiceID    *int64
	BookID       *int64
	BookTitle    *string
	MinQuantity  *int
	MaxQuantity  *int
	MinUnitPrice *decimal.Decimal
	MaxUnitPrice *decimal.Decimal
	Page         int
	PageSize     int
	Expand       invoicing.LineExpand
}

func (f LineListFilter) domain() (invoicing.LineFilter, shared.PageRequest) {
	return invoicing.LineFilter{
		InvoiceID:    f.InvoiceID,
		BookID:       f.BookID,
		BookTitle:    f.BookTitle,
		MinQuantity:  f.MinQuantity,
		MaxQuantity:  f.MaxQuantity,
		MinUnitPrice: f.MinUnitPrice,
		MaxUnitPrice: f.MaxUnitPrice,
	}, shared.NewPageRequest(f.Page, f.PageSize)
}

// ToInvoiceLineResponse converts a domain InvoiceLine to InvoiceLineResponse
func ToInvoiceLineResponse(l *invoicing.InvoiceLine) InvoiceLineResponse {
	resp := InvoiceLineResponse{
		ID:        l.ID,
		InvoiceID: l.InvoiceID,
		BookID:    l.BookID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Subtotal:  l.Subtotal,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.Book != nil {
		book := catalogapp.ToBookResponse(l.Book)
		resp.Book = &book
	}
	return resp
}

// ParseLineExpand parses a comma separated expand parameter. Only "book" is known.
func ParseLineExpand(raw string) (invoicing.LineExpand, error) {
	var expand invoicing.LineExpand
	for _, token := range strings.Split(raw, ",") {
		switch token = strings.TrimSpace(token); token {
		case "":
		case "book":
			expand.Book = true
		default:
			return expand, shared.NewValidationError("INVALID_EXPAND", "Unknown expand value: "+token)
		}
	}
	return expand, nil
}
