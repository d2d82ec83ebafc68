package invoicing

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceService creates invoices and serves invoice reads
type InvoiceService struct {
	uow            uow.Factory
	now            shared.Clock
	logger         *zap.Logger
	metrics        Metrics
	eventPublisher EventPublisher
}

// NewInvoiceService creates a new InvoiceService. A nil clock uses UTC wall time.
func NewInvoiceService(factory uow.Factory, clock shared.Clock, logger *zap.Logger) *InvoiceService {
	if clock == nil {
		clock = shared.UTCNow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		uow:    factory,
		now:    clock,
		logger: logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *InvoiceService) SetBusinessMetrics(m Metrics) {
	s.metrics = m
}

// SetEventPublisher sets the publisher notified after an invoice is committed
func (s *InvoiceService) SetEventPublisher(publisher EventPublisher) {
	s.eventPublisher = publisher
}

// Create bills a customer for the requested lines in one transaction.
// Every referenced book is locked, stock is checked against what earlier
// lines of the same request already claimed, and stock is only decremented
// once the whole invoice is valid. Nothing is written when any step fails.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrCustomerID, req.CustomerID,
		telemetry.SpanAttrLineCount, len(req.Lines),
	)
	defer span.End()

	invoice, err := s.create(ctx, req)
	if err != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, rejectionReason(err))
		telemetry.RecordError(span, err)
		s.recordRejection(err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, invoice.ID)

	if s.metrics != nil {
		event := invoicing.NewInvoiceCreatedEvent(invoice)
		s.metrics.InvoiceCreated(invoice.Total, event.LineCount, event.BooksSold)
	}
	s.publishCreated(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *InvoiceService) create(ctx context.Context, req CreateInvoiceRequest) (*invoicing.Invoice, error) {
	if req.CustomerID <= 0 {
		return nil, invoicing.ErrInvalidCustomer
	}
	if len(req.Lines) == 0 {
		return nil, invoicing.ErrEmptyInvoice
	}

	var created *invoicing.Invoice
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Customers().FindByID(ctx, req.CustomerID); err != nil {
			return err
		}

		books, err := lockBooks(ctx, repos.Books(), req.Lines)
		if err != nil {
			return err
		}

		now := s.now()
		invoice, err := invoicing.NewInvoice(req.CustomerID, now)
		if err != nil {
			return err
		}

		// Locked books are staged in memory: each line takes its units from the
		// copy, so later lines only see what earlier lines left.
		for _, item := range req.Lines {
			book, ok := books[item.BookID]
			if !ok {
				return shared.ErrNotFound.WithMessagef("book %d not found", item.BookID)
			}
			if err := book.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if _, err := invoice.AddLine(book, item.Quantity); err != nil {
				return err
			}
		}

		if err := invoice.Issue(now); err != nil {
			return err
		}

		claimed := invoice.QuantityByBook()
		for _, bookID := range slices.Sorted(maps.Keys(claimed)) {
			if err := decreaseStock(ctx, repos.Books(), books[bookID], claimed[bookID]); err != nil {
				return err
			}
		}

		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}

		created, err = repos.Invoices().FindByID(ctx, invoice.ID, invoicing.InvoiceExpand{}.Full())
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// lockBooks loads every distinct book referenced by lines with a row lock.
// Books are locked in ascending id order so concurrent invoices cannot deadlock.
// Missing books are left out of the result and reported when their line is reached.
func lockBooks(ctx context.Context, repo catalog.BookRepository, lines []InvoiceLineRequest) (map[int64]*catalog.Book, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.BookID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	books := make(map[int64]*catalog.Book, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		book, err := repo.FindByIDForUpdate(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books[id] = book
	}
	return books, nil
}

// decreaseStock applies a staged decrement with the conditional update.
// A refused update is reported with the stock that is actually left.
func decreaseStock(ctx context.Context, repo catalog.BookRepository, book *catalog.Book, qty int) error {
	err := repo.DecreaseStock(ctx, book.ID, qty)
	if !errors.Is(err, shared.ErrInsufficientStock) {
		return err
	}
	current, findErr := repo.FindByID(ctx, book.ID, catalog.BookExpand{})
	if findErr != nil {
		return err
	}
	return catalog.InsufficientStock(book, qty, current.Stock)
}

func (s *InvoiceService) recordRejection(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.InvoiceRejected(rejectionReason(err))
}

// rejectionReason is the domain error code of err, or INTERNAL
func rejectionReason(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL"
}

func (s *InvoiceService) publishCreated(ctx context.Context, invoice *invoicing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	event := invoicing.NewInvoiceCreatedEvent(invoice)
	if err := s.eventPublisher.Publish(ctx, invoicing.EventTypeInvoiceCreated, event); err != nil {
		s.logger.Warn("Failed to publish invoice created event",
			zap.Int64("invoice_id", invoice.ID),
			zap.Error(err),
		)
	}
}

// GetByID retrieves an invoice by ID with the requested relations
func (s *InvoiceService) GetByID(ctx context.Context, id int64, expand invoicing.InvoiceExpand) (*InvoiceResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var invoice *invoicing.Invoice
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		invoice, err = repos.Invoices().FindByID(ctx, id, expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves a page of invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Page[InvoiceResponse], error) {
	domainFilter, page := filter.domain()
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result *shared.Page[invoicing.Invoice]
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = repos.Invoices().List(ctx, domainFilter, page, filter.Expand)
		return err
	})
	if err != nil {
		return nil, err
	}

	return shared.MapPage(result, func(inv invoicing.Invoice) InvoiceResponse {
		return ToInvoiceResponse(&inv)
	}), nil
}

// Delete removes an invoice and its lines. Stock is not given back.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Invoices().FindByID(ctx, id, invoicing.InvoiceExpand{}); err != nil {
			return err
		}
		return repos.Invoices().Delete(ctx, id)
	})
}
