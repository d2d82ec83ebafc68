package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBookstoreReportRepository implements BookstoreReportRepository with hand-written
// aggregate SQL on the base connection. It never takes part in a unit of work.
type GormBookstoreReportRepository struct {
	db *gorm.DB
}

// NewGormBookstoreReportRepository creates a new GormBookstoreReportRepository
func NewGormBookstoreReportRepository(db *gorm.DB) *GormBookstoreReportRepository {
	return &GormBookstoreReportRepository{db: db}
}

// AuthorBookCounts returns every author with the number of books they own
func (r *GormBookstoreReportRepository) AuthorBookCounts(ctx context.Context) ([]report.AuthorBookCount, error) {
	var results []report.AuthorBookCount
	err := r.db.WithContext(ctx).Table("authors a").
		Select(`
			a.id AS author_id,
			a.first_name,
			a.last_name,
			COUNT(b.id) AS book_count
		`).
		Joins("LEFT JOIN books b ON b.author_id = a.id").
		Group("a.id, a.first_name, a.last_name").
		Order("a.first_name, a.id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].FullName = fullName(results[i].FirstName, results[i].LastName)
	}
	return results, nil
}

// CustomerInvoiceTotals returns every customer with their invoice count and billed total
func (r *GormBookstoreReportRepository) CustomerInvoiceTotals(ctx context.Context) ([]report.CustomerInvoiceTotal, error) {
	var results []report.CustomerInvoiceTotal
	err := r.db.WithContext(ctx).Table("customers c").
		Select(`
			c.id AS customer_id,
			c.first_name,
			c.last_name,
			COUNT(i.id) AS invoice_count,
			COALESCE(SUM(i.total), 0) AS total_billed
		`).
		Joins("LEFT JOIN invoices i ON i.customer_id = c.id").
		Group("c.id, c.first_name, c.last_name").
		Order("c.first_name, c.id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].FullName = fullName(results[i].FirstName, results[i].LastName)
		results[i].TotalBilled = results[i].TotalBilled.Round(2)
	}
	return results, nil
}

// DailyRevenue returns billing per issue day, oldest first.
// Line quantities are summed per invoice first so that revenue is not multiplied by the line count.
func (r *GormBookstoreReportRepository) DailyRevenue(ctx context.Context, rng report.DateRange) ([]report.DailyRevenue, error) {
	type dailyResult struct {
		Day          string
		InvoiceCount int64
		Revenue      decimal.Decimal
		BooksSold    int64
	}

	db := r.db.WithContext(ctx)
	perInvoice := db.Table("invoices i").
		Select("i.id, i.issued_at, i.total, COALESCE(SUM(l.quantity), 0) AS quantity").
		Joins("LEFT JOIN invoice_lines l ON l.invoice_id = i.id").
		Group("i.id, i.issued_at, i.total")
	if rng.From != nil {
		perInvoice = perInvoice.Where("i.issued_at >= ?", startOfDay(*rng.From))
	}
	if rng.To != nil {
		perInvoice = perInvoice.Where("i.issued_at < ?", startOfDay(*rng.To).AddDate(0, 0, 1))
	}

	day := r.dayExpression("t.issued_at")
	var results []dailyResult
	err := db.Table("(?) t", perInvoice).
		Select(fmt.Sprintf(`
			%s AS day,
			COUNT(*) AS invoice_count,
			COALESCE(SUM(t.total), 0) AS revenue,
			COALESCE(SUM(t.quantity), 0) AS books_sold
		`, day)).
		Group(day).
		Order(day).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	days := make([]report.DailyRevenue, 0, len(results))
	for _, res := range results {
		date, err := time.Parse(time.DateOnly, res.Day)
		if err != nil {
			return nil, fmt.Errorf("unexpected day %q in revenue report: %w", res.Day, err)
		}
		days = append(days, report.DailyRevenue{
			Date:         date,
			Weekday:      date.Weekday().String(),
			InvoiceCount: res.InvoiceCount,
			Revenue:      res.Revenue.Round(2),
			BooksSold:    res.BooksSold,
		})
	}
	return days, nil
}

// InvoiceSummaries returns every invoice with its customer name, newest first
func (r *GormBookstoreReportRepository) InvoiceSummaries(ctx context.Context) ([]report.InvoiceSummary, error) {
	type summaryResult struct {
		InvoiceID  int64
		IssuedAt   time.Time
		Total      decimal.Decimal
		CustomerID int64
		FirstName  string
		LastName   string
	}

	var results []summaryResult
	err := r.db.WithContext(ctx).Table("invoices i").
		Select(`
			i.id AS invoice_id,
			i.issued_at,
			i.total,
			c.id AS customer_id,
			c.first_name,
			c.last_name
		`).
		Joins("JOIN customers c ON c.id = i.customer_id").
		Order("i.issued_at DESC, i.id DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]report.InvoiceSummary, len(results))
	for i, res := range results {
		summaries[i] = report.InvoiceSummary{
			InvoiceID:    res.InvoiceID,
			IssuedAt:     res.IssuedAt.UTC(),
			Total:        res.Total,
			CustomerID:   res.CustomerID,
			CustomerName: fullName(res.FirstName, res.LastName),
		}
	}
	return summaries, nil
}

// InvoiceLineSummaries returns every invoice line with its book title
func (r *GormBookstoreReportRepository) InvoiceLineSummaries(ctx context.Context) ([]report.InvoiceLineSummary, error) {
	var results []report.InvoiceLineSummary
	err := r.db.WithContext(ctx).Table("invoice_lines l").
		Select(`
			l.id AS line_id,
			l.invoice_id,
			l.book_id,
			b.title AS book_title,
			l.quantity,
			l.unit_price,
			l.subtotal
		`).
		Joins("JOIN books b ON b.id = l.book_id").
		Order("l.invoice_id, l.id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// dayExpression formats a timestamp column as YYYY-MM-DD in the connected dialect
func (r *GormBookstoreReportRepository) dayExpression(col string) string {
	switch r.db.Dialector.Name() {
	case "mysql":
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
	case "sqlite":
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", col)
	default:
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", col)
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// Ensure GormBookstoreReportRepository implements BookstoreReportRepository
var _ report.BookstoreReportRepository = (*GormBookstoreReportRepository)(nil)
