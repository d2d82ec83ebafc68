package shared

import "math"

const (
	// DefaultPageSize is used when the caller does not ask for a page size
	DefaultPageSize = 10
	// MaxPageSize caps a single page fetch
	MaxPageSize = 100
)

// PageRequest represents paging options for list queries
type PageRequest struct {
	Page     int
	PageSize int
}

// DefaultPageRequest returns the first page with the default size
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// NewPageRequest builds a page request, falling back to the defaults for unset (zero) values.
// Negative values are kept so Validate can reject them.
func NewPageRequest(page, pageSize int) PageRequest {
	req := DefaultPageRequest()
	if page != 0 {
		req.Page = page
	}
	if pageSize != 0 {
		req.PageSize = pageSize
	}
	return req
}

// Validate rejects a page below 1, a page size outside [1, MaxPageSize]
// and a page whose offset does not fit in an int.
func (p PageRequest) Validate() error {
	if p.Page < 1 || p.PageSize < 1 || p.PageSize > MaxPageSize {
		return ErrInvalidPage.WithMessagef(
			"invalid paging: page=%d page_size=%d (page >= 1, 1 <= page_size <= %d)",
			p.Page, p.PageSize, MaxPageSize,
		)
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return ErrInvalidPage.WithMessagef("invalid paging: page %d is out of range", p.Page)
	}
	return nil
}

// Offset returns the number of rows skipped before this page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page represents one page of a filtered result set
type Page[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"total_count"`
	PageSize        int   `json:"page_size"`
	CurrentPage     int   `json:"current_page"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPage creates a page from the fetched items and the count of the filtered set
func NewPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}
	page := &Page[T]{
		Items:       items,
		TotalCount:  total,
		PageSize:    req.PageSize,
		CurrentPage: req.Page,
		TotalPages:  totalPages,
	}
	if total > 0 {
		page.HasNextPage = req.Page < totalPages
		page.HasPreviousPage = req.Page > 1
	}
	return page
}

// MapPage converts the items of a page while keeping its metadata
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Items:           items,
		TotalCount:      p.TotalCount,
		PageSize:        p.PageSize,
		CurrentPage:     p.CurrentPage,
		TotalPages:      p.TotalPages,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
	}
}
