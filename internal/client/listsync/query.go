package listsync

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"strconv"
)

const DefaultPageSize = 20

// Query fully determines one list request: a 1-based page, a page size and
// a set of filters. It is a value type; the With* methods return modified
// copies and never touch the receiver.
//
// Filter values are strings, integers, floats or booleans. Absent filters
// are omitted from the request, never sent as null.
type Query struct {
	page     int
	pageSize int
	filters  map[string]any
}

// NewQuery returns the first page of an unfiltered list. A non-positive
// pageSize selects DefaultPageSize.
func NewQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Query{page: 1, pageSize: pageSize}
}

func (q Query) Page() int     { return q.page }
func (q Query) PageSize() int { return q.pageSize }

// Filters returns a copy of the active filters.
func (q Query) Filters() map[string]any {
	return maps.Clone(q.filters)
}

func (q Query) Filter(name string) (any, bool) {
	v, ok := q.filters[name]
	return v, ok
}

// WithFilters merges partial into the filter set and moves to page 1.
// A nil or empty-string value removes the field.
func (q Query) WithFilters(partial map[string]any) (Query, error) {
	merged := maps.Clone(q.filters)
	if merged == nil {
		merged = make(map[string]any, len(partial))
	}
	for name, raw := range partial {
		v, keep, err := normalize(raw)
		if err != nil {
			return q, fmt.Errorf("filter %q: %w", name, err)
		}
		if !keep {
			delete(merged, name)
			continue
		}
		merged[name] = v
	}
	if len(merged) == 0 {
		merged = nil
	}

	out := q
	out.filters = merged
	out.page = 1
	return out, nil
}

// WithPage moves to page n, keeping the filters.
func (q Query) WithPage(n int) (Query, error) {
	if n < 1 {
		return q, fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	out := q
	out.page = n
	return out, nil
}

// Equal reports structural equality: same page, page size and filters.
func (q Query) Equal(o Query) bool {
	return q.page == o.page && q.pageSize == o.pageSize && maps.Equal(q.filters, o.filters)
}

// Values encodes the query as request parameters: page, page_size and one
// parameter per filter.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.page))
	v.Set("page_size", strconv.Itoa(q.pageSize))
	for name, value := range q.filters {
		v.Set(name, format(value))
	}
	return v
}

func (q Query) String() string {
	return q.Values().Encode()
}

// normalize maps every accepted filter value onto one of string, int64,
// float64 or bool so that structural comparison is exact.
func normalize(raw any) (value any, keep bool, err error) {
	switch v := raw.(type) {
	case nil:
		return nil, false, nil
	case string:
		return v, v != "", nil
	case bool:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case float64:
		return v, true, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint()), true, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false, nil
		}
		return normalize(rv.Elem().Interface())
	}
	return nil, false, fmt.Errorf("%w: %T", ErrInvalidFilter, raw)
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
