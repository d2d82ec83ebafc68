package handler

import (
	invoicingapp "github.com/bookstore/backend/internal/application/invoicing"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create handles POST /invoices. The whole request is billed atomically:
// either every line is invoiced and its stock reserved, or nothing changes.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicingapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoices/:id?expand=customer,lines,lines.book
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	expand, err := invoicingapp.ParseInvoiceExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id, expand)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices.
// Query: customer_id, customer_name, issued_from, issued_to, min_total, max_total,
// expand, page, page_size
func (h *InvoiceHandler) List(c *gin.Context) {
	expand, err := invoicingapp.ParseInvoiceExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	q := newQueryReader(c)
	filter := invoicingapp.InvoiceListFilter{
		CustomerID:   q.int64("customer_id"),
		CustomerName: q.text("customer_name"),
		IssuedFrom:   q.time("issued_from", false),
		IssuedTo:     q.time("issued_to", true),
		MinTotal:     q.decimal("min_total"),
		MaxTotal:     q.decimal("max_total"),
		Page:         q.pageInt("page"),
		PageSize:     q.pageInt("page_size"),
		Expand:       expand,
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, invoices)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
