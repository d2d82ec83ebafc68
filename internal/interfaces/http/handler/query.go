package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// queryReader reads optional typed query parameters and collects the ones that
// do not parse, so a handler can reject them all in one response.
type queryReader struct {
	c       *gin.Context
	details []dto.ValidationDetail
}

func newQueryReader(c *gin.Context) *queryReader {
	return &queryReader{c: c}
}

func (q *queryReader) raw(name string) (string, bool) {
	value, ok := q.c.GetQuery(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (q *queryReader) reject(name, message string) {
	q.details = append(q.details, dto.ValidationDetail{Field: name, Message: message})
}

// text returns the parameter as is; blank values are left to the filter to ignore
func (q *queryReader) text(name string) *string {
	value, ok := q.c.GetQuery(name)
	if !ok {
		return nil
	}
	return &value
}

func (q *queryReader) int64(name string) *int64 {
	value, ok := q.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		q.reject(name, "Must be an integer")
		return nil
	}
	return &n
}

func (q *queryReader) int(name string) *int {
	n := q.int64(name)
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

// pageInt reads a paging parameter; absent means zero so the default applies
func (q *queryReader) pageInt(name string) int {
	if n := q.int(name); n != nil {
		return *n
	}
	return 0
}

func (q *queryReader) bool(name string) *bool {
	value, ok := q.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		q.reject(name, "Must be true or false")
		return nil
	}
	return &b
}

func (q *queryReader) decimal(name string) *decimal.Decimal {
	value, ok := q.raw(name)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		q.reject(name, "Must be a decimal number")
		return nil
	}
	return &d
}

// time reads an RFC 3339 timestamp or a calendar date. A date used as an upper
// bound covers the whole day.
func (q *queryReader) time(name string, upper bool) *time.Time {
	value, ok := q.raw(name)
	if !ok {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		q.reject(name, fmt.Sprintf("Must be a date (%s) or an RFC 3339 timestamp", time.DateOnly))
		return nil
	}
	if upper {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day
}

// date reads a calendar date without adjusting it
func (q *queryReader) date(name string) *time.Time {
	value, ok := q.raw(name)
	if !ok {
		return nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		q.reject(name, fmt.Sprintf("Must be a date (%s)", time.DateOnly))
		return nil
	}
	return &day
}

// valid answers 400 with every rejected parameter and reports whether all parsed
func (q *queryReader) valid(h *BaseHandler) bool {
	if len(q.details) == 0 {
		return true
	}
	h.ValidationError(q.c, q.details)
	return false
}
