package dto

import (
	"net/http"

	"github.com/bookstore/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their own codes.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeValidation is used when a request body or query fails binding
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeRouteNotFound is used for unknown routes
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// InternalErrorMessage is the only message a client sees for unexpected failures
const InternalErrorMessage = "An internal error occurred"

var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindBusinessRule: http.StatusConflict,
}

// StatusForError returns the HTTP status of err. Errors that carry no
// domain kind are internal.
func StatusForError(err error) int {
	kind, ok := shared.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, found := kindHTTPStatus[kind]; found {
		return status
	}
	return http.StatusInternalServerError
}
