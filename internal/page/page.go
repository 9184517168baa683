// Package page provides the pagination envelope shared by list endpoints.
package page

import "errors"

// MaxLimit caps the page size accepted from callers.
const MaxLimit = 1000

// ErrInvalidOptions indicates malformed pagination parameters.
var ErrInvalidOptions = errors.New("invalid pagination options")

// Order is the sort direction for paginated queries.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Options describes the requested page window and sort direction.
type Options struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Order Order `json:"order_direction"`
}

// DefaultOptions returns the first page with the default size, descending.
func DefaultOptions() Options {
	return Options{Page: 1, Limit: 10, Order: OrderDesc}
}

// Skip returns the number of items preceding the requested page.
func (o Options) Skip() int {
	return (o.Page - 1) * o.Limit
}

// Validate checks the option bounds.
func (o Options) Validate() error {
	if o.Page < 1 {
		return ErrInvalidOptions
	}
	if o.Limit < 1 || o.Limit > MaxLimit {
		return ErrInvalidOptions
	}
	if o.Order != OrderAsc && o.Order != OrderDesc {
		return ErrInvalidOptions
	}
	return nil
}

// Meta describes a page of results. TotalCount carries an endpoint-defined
// unpaginated total and is preserved even for out-of-range pages.
type Meta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	ItemCount       int   `json:"item_count"`
	TotalCount      int64 `json:"total_count"`
	PageCount       int   `json:"page_count"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
}

// NewMeta derives page metadata from the options, the item count of the page
// slice and the endpoint-defined unpaginated total.
func NewMeta(opts Options, itemCount int, totalCount int64) Meta {
	pageCount := 0
	if opts.Limit > 0 {
		pageCount = (itemCount + opts.Limit - 1) / opts.Limit
	}
	return Meta{
		Page:            opts.Page,
		Limit:           opts.Limit,
		ItemCount:       itemCount,
		TotalCount:      totalCount,
		PageCount:       pageCount,
		HasPreviousPage: opts.Page > 1,
		HasNextPage:     opts.Page < pageCount,
	}
}

// Page is a slice of results together with its metadata.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// New constructs a page from data and metadata.
func New[T any](data []T, meta Meta) *Page[T] {
	if data == nil {
		data = []T{}
	}
	return &Page[T]{Data: data, Meta: meta}
}

// Slice returns items[skip : skip+limit] clamped to the slice bounds. Indices
// past the end yield an empty slice, never a panic.
func Slice[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
