// Package middleware provides HTTP middleware for the bookstore API.
package middleware

import (
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out of the service
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength bounds a caller supplied request id
	MaxRequestIDLength = 128
)

// RequestID assigns every request an id, reusing the caller's X-Request-ID when present,
// and echoes it in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		} else if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		c.Set(logger.RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or the raw header when the
// middleware did not run
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(logger.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}
