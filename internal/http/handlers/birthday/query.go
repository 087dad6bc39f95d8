package birthday

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
)

// Query parameters understood by the list endpoint.
const (
	paramSort       = "sort"
	paramOrder      = "order"
	paramPage       = "page"
	paramPageSize   = "pageSize"
	paramPagination = "pagination"
)

var filterParams = []string{
	dataprovider.FilterCategory,
	dataprovider.FilterName,
	dataprovider.FilterSearch,
}

// ParseListParams turns a list query string into provider parameters.
//
//	?category=family&q=smith&sort=daysUntil&order=desc&page=2&pageSize=5
//	?pagination=off
//
// Missing page values fall back to the provider defaults; values that are
// present but not integers are an error.
func ParseListParams(q url.Values) (dataprovider.ListParams, error) {
	var params dataprovider.ListParams

	for _, field := range filterParams {
		if v := q.Get(field); v != "" {
			params.Filters = append(params.Filters, dataprovider.Filter{Field: field, Value: v})
		}
	}

	if field := q.Get(paramSort); field != "" {
		params.Sort = &dataprovider.Sorter{
			Field: field,
			Order: dataprovider.ParseOrder(q.Get(paramOrder)),
		}
	}

	current, err := intParam(q, paramPage)
	if err != nil {
		return params, err
	}
	size, err := intParam(q, paramPageSize)
	if err != nil {
		return params, err
	}

	params.Pagination = dataprovider.Pagination{
		Current:  current,
		PageSize: size,
		Mode:     dataprovider.PaginationServer,
	}
	if q.Get(paramPagination) == string(dataprovider.PaginationOff) {
		params.Pagination.Mode = dataprovider.PaginationOff
	}
	return params, nil
}

var errNotInteger = errors.New("must be an integer")

// intParam reads an optional integer; absent means 0.
func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, errNotInteger)
	}
	return n, nil
}
