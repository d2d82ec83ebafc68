package handler

import (
	invoicingapp "github.com/bookstore/backend/internal/application/invoicing"
	"github.com/gin-gonic/gin"
)

// LineHandler handles invoice line API endpoints
type LineHandler struct {
	BaseHandler
	lineService *invoicingapp.LineService
}

// NewLineHandler creates a new LineHandler
func NewLineHandler(lineService *invoicingapp.LineService) *LineHandler {
	return &LineHandler{
		lineService: lineService,
	}
}

// GetByID handles GET /invoice-lines/:id?expand=book
func (h *LineHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	expand, err := invoicingapp.ParseLineExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	line, err := h.lineService.GetByID(c.Request.Context(), id, expand)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// List handles GET /invoice-lines.
// Query: invoice_id, book_id, book_title, min_quantity, max_quantity,
// min_unit_price, max_unit_price, expand, page, page_size
func (h *LineHandler) List(c *gin.Context) {
	expand, err := invoicingapp.ParseLineExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	q := newQueryReader(c)
	filter := invoicingapp.LineListFilter{
		InvoiceID:    q.int64("invoice_id"),
		BookID:       q.int64("book_id"),
		BookTitle:    q.text("book_title"),
		MinQuantity:  q.int("min_quantity"),
		MaxQuantity:  q.int("max_quantity"),
		MinUnitPrice: q.decimal("min_unit_price"),
		MaxUnitPrice: q.decimal("max_unit_price"),
		Page:         q.pageInt("page"),
		PageSize:     q.pageInt("page_size"),
		Expand:       expand,
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	lines, err := h.lineService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, lines)
}

// UpdateQuantity handles PATCH /invoice-lines/:id
func (h *LineHandler) UpdateQuantity(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicingapp.UpdateLineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	line, err := h.lineService.UpdateQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Delete handles DELETE /invoice-lines/:id
func (h *LineHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.lineService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
