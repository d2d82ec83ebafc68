package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct{}

// Success sends a successful response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 Created response with data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 No Content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status, code and message
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 Bad Request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// ValidationError sends a 400 response listing the rejected fields
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		details,
	))
}

// HandleError maps err to a response. Domain errors keep their code and message;
// anything else is logged with the request id and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.StatusForError(err), domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, dto.InternalErrorMessage)
}

// bindJSON decodes the body into req and answers 400 when it is malformed or fails
// its binding rules. It reports whether the handler may continue.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.ValidationError(c, middleware.ValidationDetails(validationErrs))
		return false
	}
	h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON: "+err.Error())
	return false
}

// pathID parses a positive integer path parameter, answering 400 otherwise
func (h *BaseHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, shared.ErrInvalidID.Code, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// page sends one page of results with pagination metadata
func page[T any](c *gin.Context, p *shared.Page[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(p))
}
