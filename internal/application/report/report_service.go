package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bookstore/backend/internal/domain/report"
	"github.com/bookstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Cache stores serialized report results for a limited time
type Cache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ErrInvalidDateRange is returned when a report range ends before it starts
var ErrInvalidDateRange = shared.NewValidationError("INVALID_DATE_RANGE", "Report range must not end before it starts")

// DefaultCacheTTL is used when the service is built without an explicit TTL
const DefaultCacheTTL = 30 * time.Second

// ReportService serves the read-only bookstore reports.
// Results are read through an optional cache; a failing cache never fails a report.
type ReportService struct {
	repo   report.BookstoreReportRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repo report.BookstoreReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
}

// SetCache enables read-through caching of report results
func (s *ReportService) SetCache(cache Cache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.ttl = ttl
	}
}

// AuthorBookCounts returns every author with the number of books they own
func (s *ReportService) AuthorBookCounts(ctx context.Context) ([]report.AuthorBookCount, error) {
	return cached(ctx, s, "authors", s.repo.AuthorBookCounts)
}

// CustomerInvoiceTotals returns every customer with their invoice count and billed total
func (s *ReportService) CustomerInvoiceTotals(ctx context.Context) ([]report.CustomerInvoiceTotal, error) {
	return cached(ctx, s, "customers", s.repo.CustomerInvoiceTotals)
}

// DailyRevenue returns revenue per issue date within the optional range
func (s *ReportService) DailyRevenue(ctx context.Context, r report.DateRange) ([]report.DailyRevenue, error) {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return nil, ErrInvalidDateRange.WithMessagef(
			"report range ends (%s) before it starts (%s)",
			r.To.Format(time.DateOnly), r.From.Format(time.DateOnly),
		)
	}
	key := "daily:" + dayKey(r.From) + ":" + dayKey(r.To)
	return cached(ctx, s, key, func(ctx context.Context) ([]report.DailyRevenue, error) {
		return s.repo.DailyRevenue(ctx, r)
	})
}

// InvoiceSummaries returns every invoice with its customer name, newest first
func (s *ReportService) InvoiceSummaries(ctx context.Context) ([]report.InvoiceSummary, error) {
	return cached(ctx, s, "invoices", s.repo.InvoiceSummaries)
}

// InvoiceLineSummaries returns every invoice line with its book title
func (s *ReportService) InvoiceLineSummaries(ctx context.Context) ([]report.InvoiceLineSummary, error) {
	return cached(ctx, s, "lines", s.repo.InvoiceLineSummaries)
}

func dayKey(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(time.DateOnly)
}

// cached runs load through the cache-aside path under key
func cached[T any](ctx context.Context, s *ReportService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache == nil {
		return loadRows(ctx, load)
	}

	raw, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var rows []T
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		s.logger.Warn("Discarding undecodable cached report", zap.String("key", key))
	}

	rows, err := loadRows(ctx, load)
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(rows)
	if err != nil {
		return rows, nil
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return rows, nil
}

func loadRows[T any](ctx context.Context, load func(context.Context) ([]T, error)) ([]T, error) {
	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
