package handler

import (
	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// BookHandler handles book API endpoints
type BookHandler struct {
	BaseHandler
	bookService *catalogapp.BookService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService *catalogapp.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var req catalogapp.BookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, book)
}

// GetByID handles GET /books/:id?expand=author
func (h *BookHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	expand, err := catalogapp.ParseBookExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id, expand)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, book)
}

// List handles GET /books.
// Query: title, author_name, author_id, min_price, max_price, available, expand, page, page_size
func (h *BookHandler) List(c *gin.Context) {
	expand, err := catalogapp.ParseBookExpand(c.Query("expand"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	q := newQueryReader(c)
	filter := catalogapp.BookListFilter{
		Title:      q.text("title"),
		AuthorName: q.text("author_name"),
		AuthorID:   q.int64("author_id"),
		MinPrice:   q.decimal("min_price"),
		MaxPrice:   q.decimal("max_price"),
		Available:  q.bool("available"),
		Page:       q.pageInt("page"),
		PageSize:   q.pageInt("page_size"),
		Expand:     expand,
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	books, err := h.bookService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, books)
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.BookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, book)
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
