package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/report"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockReportRepository is a mock implementation of report.BookstoreReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) AuthorBookCounts(ctx context.Context) ([]report.AuthorBookCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.AuthorBookCount), args.Error(1)
}

func (m *MockReportRepository) CustomerInvoiceTotals(ctx context.Context) ([]report.CustomerInvoiceTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CustomerInvoiceTotal), args.Error(1)
}

func (m *MockReportRepository) DailyRevenue(ctx context.Context, r report.DateRange) ([]report.DailyRevenue, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DailyRevenue), args.Error(1)
}

func (m *MockReportRepository) InvoiceSummaries(ctx context.Context) ([]report.InvoiceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.InvoiceSummary), args.Error(1)
}

func (m *MockReportRepository) InvoiceLineSummaries(ctx context.Context) ([]report.InvoiceLineSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.InvoiceLineSummary), args.Error(1)
}

// mapCache is a Cache over a plain map
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func authorRows() []report.AuthorBookCount {
	return []report.AuthorBookCount{
		{AuthorID: 1, FirstName: "Frank", LastName: "Herbert", FullName: "Frank Herbert", BookCount: 2},
		{AuthorID: 2, FirstName: "Jane", LastName: "Austen", FullName: "Jane Austen", BookCount: 0},
	}
}

func TestReportService_WithoutCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	repo.On("AuthorBookCounts", ctx).Return(authorRows(), nil).Twice()
	repo.On("InvoiceSummaries", ctx).Return(nil, nil).Once()
	svc := NewReportService(repo, nil)

	for i := 0; i < 2; i++ {
		rows, err := svc.AuthorBookCounts(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	}

	summaries, err := svc.InvoiceSummaries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
	repo.AssertExpectations(t)
}

func TestReportService_CacheAside(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from the cache", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CustomerInvoiceTotals", ctx).Return([]report.CustomerInvoiceTotal{
			{CustomerID: 1, FullName: "Alice Smith", InvoiceCount: 2, TotalBilled: decimal.RequireFromString("85.47")},
		}, nil).Once()
		cache := newMapCache()
		svc := NewReportService(repo, nil)
		svc.SetCache(cache, time.Minute)

		first, err := svc.CustomerInvoiceTotals(ctx)
		require.NoError(t, err)
		second, err := svc.CustomerInvoiceTotals(ctx)
		require.NoError(t, err)

		require.Len(t, second, 1)
		assert.Equal(t, first[0].FullName, second[0].FullName)
		assert.True(t, decimal.RequireFromString("85.47").Equal(second[0].TotalBilled))
		assert.Equal(t, time.Minute, cache.ttls["customers"])
		repo.AssertExpectations(t)
	})

	t.Run("daily revenue is keyed by its range", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		repo := new(MockReportRepository)
		repo.On("DailyRevenue", ctx, report.DateRange{From: &from, To: &to}).
			Return([]report.DailyRevenue{{Date: from, Weekday: "Friday", InvoiceCount: 2}}, nil).Once()
		repo.On("DailyRevenue", ctx, report.DateRange{}).
			Return([]report.DailyRevenue{}, nil).Once()
		cache := newMapCache()
		svc := NewReportService(repo, nil)
		svc.SetCache(cache, 0)

		_, err := svc.DailyRevenue(ctx, report.DateRange{From: &from, To: &to})
		require.NoError(t, err)
		rows, err := svc.DailyRevenue(ctx, report.DateRange{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Friday", rows[0].Weekday)

		_, err = svc.DailyRevenue(ctx, report.DateRange{})
		require.NoError(t, err)

		assert.Contains(t, cache.entries, "daily:2024-03-01:2024-03-02")
		assert.Contains(t, cache.entries, "daily:*:*")
		assert.Equal(t, DefaultCacheTTL, cache.ttls["daily:*:*"])
		repo.AssertExpectations(t)
	})

	t.Run("cache failures fall back to the store and are logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockReportRepository)
		repo.On("InvoiceLineSummaries", ctx).Return([]report.InvoiceLineSummary{{LineID: 1}}, nil).Twice()
		cache := newMapCache()
		cache.getErr = errors.New("redis: connection refused")
		cache.setErr = errors.New("redis: connection refused")
		svc := NewReportService(repo, zap.New(core))
		svc.SetCache(cache, time.Minute)

		for i := 0; i < 2; i++ {
			rows, err := svc.InvoiceLineSummaries(ctx)
			require.NoError(t, err)
			assert.Len(t, rows, 1)
		}
		assert.Equal(t, 2, logs.FilterMessage("Report cache read failed").Len())
		assert.Equal(t, 2, logs.FilterMessage("Report cache write failed").Len())
		repo.AssertExpectations(t)
	})

	t.Run("undecodable entries are reloaded", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("AuthorBookCounts", ctx).Return(authorRows(), nil).Once()
		cache := newMapCache()
		cache.entries["authors"] = []byte("not json")
		svc := NewReportService(repo, nil)
		svc.SetCache(cache, time.Minute)

		rows, err := svc.AuthorBookCounts(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.NotEqual(t, "not json", string(cache.entries["authors"]))
	})

	t.Run("store errors are returned and not cached", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("AuthorBookCounts", ctx).Return(nil, errors.New("db down")).Once()
		cache := newMapCache()
		svc := NewReportService(repo, nil)
		svc.SetCache(cache, time.Minute)

		_, err := svc.AuthorBookCounts(ctx)
		require.Error(t, err)
		assert.Empty(t, cache.entries)
	})
}

func TestReportService_DailyRevenueRejectsInvertedRange(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, nil)
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.DailyRevenue(context.Background(), report.DateRange{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.True(t, shared.IsKind(err, shared.KindValidation))
	repo.AssertNotCalled(t, "DailyRevenue", mock.Anything, mock.Anything)
}
