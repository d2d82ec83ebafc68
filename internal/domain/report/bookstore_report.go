package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AuthorBookCount is a read model for the number of books per author
type AuthorBookCount struct {
	AuthorID  int64  `json:"author_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	BookCount int64  `json:"book_count"`
}

// CustomerInvoiceTotal is a read model for what each customer has been billed
type CustomerInvoiceTotal struct {
	CustomerID   int64           `json:"customer_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	FullName     string          `json:"full_name"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
}

// DailyRevenue is a read model for billing grouped by issue date
type DailyRevenue struct {
	Date         time.Time       `json:"date"`
	Weekday      string          `json:"weekday"`
	InvoiceCount int64           `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	BooksSold    int64           `json:"books_sold"`
}

// InvoiceSummary is a light read model of an invoice with its customer name
type InvoiceSummary struct {
	InvoiceID    int64           `json:"invoice_id"`
	IssuedAt     time.Time       `json:"issued_at"`
	Total        decimal.Decimal `json:"total"`
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
}

// InvoiceLineSummary is a light read model of an invoice line with its book title
type InvoiceLineSummary struct {
	LineID    int64           `json:"line_id"`
	InvoiceID int64           `json:"invoice_id"`
	BookID    int64           `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// DateRange bounds a report by issue date, both ends inclusive and optional
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// BookstoreReportRepository runs the read-only aggregate queries directly against the store
type BookstoreReportRepository interface {
	// AuthorBookCounts returns every author with the number of books they own
	AuthorBookCounts(ctx context.Context) ([]AuthorBookCount, error)

	// CustomerInvoiceTotals returns every customer with their invoice count and billed total
	CustomerInvoiceTotals(ctx context.Context) ([]CustomerInvoiceTotal, error)

	// DailyRevenue returns revenue per issue date in the range, oldest first
	DailyRevenue(ctx context.Context, r DateRange) ([]DailyRevenue, error)

	// InvoiceSummaries returns every invoice with its customer name, newest first
	InvoiceSummaries(ctx context.Context) ([]InvoiceSummary, error)

	// InvoiceLineSummaries returns every invoice line with its book title
	InvoiceLineSummaries(ctx context.Context) ([]InvoiceLineSummary, error)
}
