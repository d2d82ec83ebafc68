package telemetry

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gather returns the metric family called name, or nil
func gather(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, l := range metric.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestMetrics_InvoiceCounters(t *testing.T) {
	m := NewMetrics()

	m.InvoiceCreated(decimal.RequireFromString("60.00"), 1, 3)
	m.InvoiceCreated(decimal.RequireFromString("25.47"), 2, 4)
	m.InvoiceRejected("INSUFFICIENT_STOCK")
	m.InvoiceRejected("INSUFFICIENT_STOCK")
	m.InvoiceRejected("NOT_FOUND")

	created := gather(t, m, "bookstore_invoices_created_total")
	require.NotNil(t, created)
	assert.Equal(t, 2.0, created.GetMetric()[0].GetCounter().GetValue())

	revenue := gather(t, m, "bookstore_invoice_revenue_total")
	require.NotNil(t, revenue)
	assert.InDelta(t, 85.47, revenue.GetMetric()[0].GetCounter().GetValue(), 1e-9)

	sold := gather(t, m, "bookstore_books_sold_total")
	require.NotNil(t, sold)
	assert.Equal(t, 7.0, sold.GetMetric()[0].GetCounter().GetValue())

	lines := gather(t, m, "bookstore_invoice_lines")
	require.NotNil(t, lines)
	assert.Equal(t, uint64(2), lines.GetMetric()[0].GetHistogram().GetSampleCount())

	rejected := gather(t, m, "bookstore_invoices_rejected_total")
	require.NotNil(t, rejected)
	byReason := map[string]float64{}
	for _, metric := range rejected.GetMetric() {
		byReason[labelValue(metric, "reason")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"INSUFFICIENT_STOCK": 2, "NOT_FOUND": 1}, byReason)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest(http.MethodPost, "/api/v1/invoices", http.StatusCreated, 15*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/v1/invoices", http.StatusConflict, 5*time.Millisecond)

	requests := gather(t, m, "bookstore_http_requests_total")
	require.NotNil(t, requests)
	assert.Len(t, requests.GetMetric(), 2)
	for _, metric := range requests.GetMetric() {
		assert.Equal(t, "/api/v1/invoices", labelValue(metric, "route"))
	}

	duration := gather(t, m, "bookstore_http_request_duration_seconds")
	require.NotNil(t, duration)
	assert.Equal(t, uint64(2), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.InvoiceRejected("EMPTY_INVOICE")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `bookstore_invoices_rejected_total{reason="EMPTY_INVOICE"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_RegisterDBStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	var sqlDB *sql.DB
	sqlDB, err = db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	m := NewMetrics()
	require.NoError(t, m.RegisterDBStats(sqlDB, "bookstore"))
	assert.NotNil(t, gather(t, m, "go_sql_open_connections"))

	assert.Error(t, m.RegisterDBStats(sqlDB, "bookstore"), "duplicate registration must fail")
}
