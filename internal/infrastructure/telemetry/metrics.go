package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "bookstore"

// Metrics owns a private Prometheus registry with the HTTP and business collectors.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	invoicesCreated  prometheus.Counter
	invoicesRejected *prometheus.CounterVec
	invoiceRevenue   prometheus.Counter
	invoiceLines     prometheus.Histogram
	booksSold        prometheus.Counter
}

// NewMetrics creates the registry and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "invoices_created_total",
			Help:      "Number of invoices committed.",
		}),
		invoicesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "invoices_rejected_total",
			Help:      "Number of invoice requests rejected, by error code.",
		}, []string{"reason"}),
		invoiceRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "invoice_revenue_total",
			Help:      "Sum of committed invoice totals.",
		}),
		invoiceLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "invoice_lines",
			Help:      "Number of lines per committed invoice.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		booksSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "books_sold_total",
			Help:      "Number of book units sold on committed invoices.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.invoicesCreated,
		m.invoicesRejected,
		m.invoiceRevenue,
		m.invoiceLines,
		m.booksSold,
	)
	return m
}

// RegisterDBStats exports connection pool statistics of db
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one handled HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InvoiceCreated records a committed invoice
func (m *Metrics) InvoiceCreated(total decimal.Decimal, lines, booksSold int) {
	m.invoicesCreated.Inc()
	m.invoiceRevenue.Add(total.InexactFloat64())
	m.invoiceLines.Observe(float64(lines))
	m.booksSold.Add(float64(booksSold))
}

// InvoiceRejected records a rejected invoice request
func (m *Metrics) InvoiceRejected(reason string) {
	m.invoicesRejected.WithLabelValues(reason).Inc()
}
