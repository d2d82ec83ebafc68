package handler

import (
	partnerapp "github.com/bookstore/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List handles GET /customers.
// Query: first_name, last_name, email, has_invoices, page, page_size
func (h *CustomerHandler) List(c *gin.Context) {
	q := newQueryReader(c)
	filter := partnerapp.CustomerListFilter{
		FirstName:   q.text("first_name"),
		LastName:    q.text("last_name"),
		Email:       q.text("email"),
		HasInvoices: q.bool("has_invoices"),
		Page:        q.pageInt("page"),
		PageSize:    q.pageInt("page_size"),
	}
	if !q.valid(&h.BaseHandler) {
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, customers)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
