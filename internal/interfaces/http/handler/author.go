package handler

import (
	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// AuthorHandler handles author API endpoints
type AuthorHandler struct {
	BaseHandler
	authorService *catalogapp.AuthorService
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(authorService *catalogapp.AuthorService) *AuthorHandler {
	return &AuthorHandler{
		authorService: authorService,
	}
}

// Create handles POST /authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var req catalogapp.AuthorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	author, err := h.authorService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, author)
}

// GetByID handles GET /authors/:id
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	author, err := h.authorService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, author)
}

// List handles GET /authors.
// Query: first_name, last_name, has_books, page, page_size
func (h *AuthorHandler) List(c *gin.Context) {
	q := newQueryReader(c)
	filter := catalogapp.AuthorListFilter{
		FirstName: q.text("first_name"),
		LastName:  q.text("last_name"),
		HasBooks:  q.bool("has_books"),
		Page:      q.pageInt("page"),
		PageSize:  q.pageInt("page_size"),
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	authors, err := h.authorService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, authors)
}

// Update handles PUT /authors/:id
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AuthorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	author, err := h.authorService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, author)
}

// Delete handles DELETE /authors/:id
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.authorService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
