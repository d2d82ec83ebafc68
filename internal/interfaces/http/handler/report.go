package handler

import (
	reportapp "github.com/bookstore/backend/internal/application/report"
	"github.com/bookstore/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the read-only summary reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// AuthorBookCounts handles GET /reports/authors
func (h *ReportHandler) AuthorBookCounts(c *gin.Context) {
	rows, err := h.reportService.AuthorBookCounts(c.Request.Context())
	h.respond(c, rows, err)
}

// CustomerInvoiceTotals handles GET /reports/customers
func (h *ReportHandler) CustomerInvoiceTotals(c *gin.Context) {
	rows, err := h.reportService.CustomerInvoiceTotals(c.Request.Context())
	h.respond(c, rows, err)
}

// DailyRevenue handles GET /reports/daily-revenue?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) DailyRevenue(c *gin.Context) {
	q := newQueryReader(c)
	rng := report.DateRange{
		From: q.date("from"),
		To:   q.date("to"),
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	rows, err := h.reportService.DailyRevenue(c.Request.Context(), rng)
	h.respond(c, rows, err)
}

// InvoiceSummaries handles GET /reports/invoices
func (h *ReportHandler) InvoiceSummaries(c *gin.Context) {
	rows, err := h.reportService.InvoiceSummaries(c.Request.Context())
	h.respond(c, rows, err)
}

// InvoiceLineSummaries handles GET /reports/lines
func (h *ReportHandler) InvoiceLineSummaries(c *gin.Context) {
	rows, err := h.reportService.InvoiceLineSummaries(c.Request.Context())
	h.respond(c, rows, err)
}

func (h *ReportHandler) respond(c *gin.Context, rows any, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
