package invoicing

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
)

// LineService handles reads and corrections of individual invoice lines.
// Every mutation keeps stock, the line subtotal and the invoice total consistent.
type LineService struct {
	uow uow.Factory
	now shared.Clock
}

// NewLineService creates a new LineService. A nil clock uses UTC wall time.
func NewLineService(factory uow.Factory, clock shared.Clock) *LineService {
	if clock == nil {
		clock = shared.UTCNow
	}
	return &LineService{
		uow: factory,
		now: clock,
	}
}

// GetByID retrieves an invoice line by ID
func (s *LineService) GetByID(ctx context.Context, id int64, expand invoicing.LineExpand) (*InvoiceLineResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var line *invoicing.InvoiceLine
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		line, err = repos.InvoiceLines().FindByID(ctx, id, expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceLineResponse(line)
	return &response, nil
}

// List retrieves a page of invoice lines matching the filter
func (s *LineService) List(ctx context.Context, filter LineListFilter) (*shared.Page[InvoiceLineResponse], error) {
	domainFilter, page := filter.domain()
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result *shared.Page[invoicing.InvoiceLine]
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = repos.InvoiceLines().List(ctx, domainFilter, page, filter.Expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	return shared.MapPage(result, func(l invoicing.InvoiceLine) InvoiceLineResponse {
		return ToInvoiceLineResponse(&l)
	}), nil
}

// UpdateQuantity changes the quantity of a line. Stock moves by the difference,
// the unit price snapshot is kept and the invoice total is recomputed.
func (s *LineService) UpdateQuantity(ctx context.Context, id int64, req UpdateLineRequest) (*InvoiceLineResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, catalog.ErrInvalidQuantity
	}

	var line *invoicing.InvoiceLine
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		line, err = repos.InvoiceLines().FindByID(ctx, id, invoicing.LineExpand{})
		if err != nil {
			return err
		}

		book, err := repos.Books().FindByIDForUpdate(ctx, line.BookID)
		if err != nil {
			return err
		}

		now := s.now()
		delta := req.Quantity - line.Quantity
		switch {
		case delta > 0:
			if err := book.DecreaseStock(delta); err != nil {
				return err
			}
			if err := decreaseStock(ctx, repos.Books(), book, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := book.IncreaseStock(-delta); err != nil {
				return err
			}
			if err := repos.Books().IncreaseStock(ctx, book.ID, -delta); err != nil {
				return err
			}
		}

		if err := line.ChangeQuantity(req.Quantity, now); err != nil {
			return err
		}
		if err := repos.InvoiceLines().Update(ctx, line); err != nil {
			return err
		}
		if err := recalculateInvoiceTotal(ctx, repos, line.InvoiceID, now); err != nil {
			return err
		}

		line, err = repos.InvoiceLines().FindByID(ctx, id, invoicing.LineExpand{Book: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceLineResponse(line)
	return &response, nil
}

// Delete removes a line, puts its books back into stock and recomputes the invoice total.
// The last line of an invoice cannot be deleted.
func (s *LineService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos uow.Repositories) error {
		line, err := repos.InvoiceLines().FindByID(ctx, id, invoicing.LineExpand{})
		if err != nil {
			return err
		}

		siblings, err := repos.InvoiceLines().FindByInvoice(ctx, line.InvoiceID)
		if err != nil {
			return err
		}
		if len(siblings) <= 1 {
			return invoicing.ErrLastLine.WithMessagef("line %d is the last line of invoice %d", id, line.InvoiceID)
		}

		book, err := repos.Books().FindByIDForUpdate(ctx, line.BookID)
		if err != nil {
			return err
		}
		if err := book.IncreaseStock(line.Quantity); err != nil {
			return err
		}
		if err := repos.Books().IncreaseStock(ctx, book.ID, line.Quantity); err != nil {
			return err
		}
		if err := repos.InvoiceLines().Delete(ctx, id); err != nil {
			return err
		}
		return recalculateInvoiceTotal(ctx, repos, line.InvoiceID, s.now())
	})
}

func recalculateInvoiceTotal(ctx context.Context, repos uow.Repositories, invoiceID int64, now time.Time) error {
	lines, err := repos.InvoiceLines().FindByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	invoice := invoicing.Invoice{Lines: lines}
	invoice.RecalculateTotal()
	return repos.Invoices().UpdateTotal(ctx, invoiceID, invoice.Total, now)
}
