package dataprovider

import "strings"

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts "asc"/"desc" in any case; anything else is ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

// Filter is an equality-style predicate on one field. How Value is
// compared depends on the field (exact for category, substring for name).
type Filter struct {
	Field string
	Value string
}

// Sorter is a single-key sort specification.
type Sorter struct {
	Field string
	Order Order
}

// PaginationMode selects whether List slices its result.
type PaginationMode string

const (
	PaginationServer PaginationMode = "server"
	PaginationOff    PaginationMode = "off"
)

// Pagination defaults used when Current or PageSize are missing or < 1.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Pagination is a 1-based page request.
type Pagination struct {
	Current  int
	PageSize int
	Mode     PaginationMode
}

// Off reports whether pagination is disabled.
func (p Pagination) Off() bool {
	return p.Mode == PaginationOff
}

// Bounds returns the half-open [start, end) window of p over total items.
// Both ends are clipped to total.
func (p Pagination) Bounds(total int) (start, end int) {
	if p.Off() {
		return 0, total
	}
	current, size := p.Current, p.PageSize
	if current < 1 {
		current = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	// Compare before multiplying so huge page numbers or sizes cannot wrap.
	if total <= 0 || current-1 > total/size {
		return total, total
	}
	start = min((current-1)*size, total)
	end = start + min(size, total-start)
	return start, end
}

// ListParams bundles everything a List call accepts. The zero value means
// "no filters, insertion order, first page of DefaultPageSize".
type ListParams struct {
	Filters    []Filter
	Sort       *Sorter
	Pagination Pagination
}

// paginate returns the page of items selected by p.
func paginate[T any](items []T, p Pagination) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}
