// Package listing implements the query parameters shared by every collection
// endpoint: name filter, free-text search, sorting and offset pagination.
package listing

import (
	"cmp"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "id"
)

// Params holds the parsed list query: name, q, _sort, _order, _page, _limit.
type Params struct {
	Name  string
	Query string
	Sort  string
	Order Order
	Page  int
	Limit int
}

// DefaultParams returns the first page sorted by id ascending.
func DefaultParams() Params {
	return Params{Sort: DefaultSort, Order: OrderAsc, Page: DefaultPage, Limit: DefaultLimit}
}

// ParseParams reads list parameters from a query string. Missing values fall
// back to the defaults; malformed values are reported as validation errors.
func ParseParams(values url.Values) (Params, error) {
	p := DefaultParams()
	var errs validator.ValidationErrors

	p.Name = strings.TrimSpace(values.Get("name"))
	p.Query = strings.TrimSpace(values.Get("q"))

	if s := strings.TrimSpace(values.Get("_sort")); s != "" {
		p.Sort = s
	}

	if o := strings.ToLower(strings.TrimSpace(values.Get("_order"))); o != "" {
		switch Order(o) {
		case OrderAsc, OrderDesc:
			p.Order = Order(o)
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "_order",
				Message: "_order must be asc or desc",
			})
		}
	}

	if v := values.Get("_page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			errs = append(errs, validator.ValidationError{
				Field:   "_page",
				Message: "_page must be a positive integer",
			})
		} else {
			p.Page = page
		}
	}

	if v := values.Get("_limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			errs = append(errs, validator.ValidationError{
				Field:   "_limit",
				Message: "_limit must be a positive integer",
			})
		} else {
			p.Limit = min(limit, MaxLimit)
		}
	}

	if len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

// Offset is the index of the first item on the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Comparators maps a sortable field name to a three-way comparison.
type Comparators[T any] map[string]func(a, b T) int

// Fields returns the sortable field names in lexical order.
func (c Comparators[T]) Fields() []string {
	fields := make([]string, 0, len(c))
	for k := range c {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Validate rejects a sort field the collection does not support.
func (c Comparators[T]) Validate(p Params) error {
	if _, ok := c[p.Sort]; ok {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "_sort",
		Message: "_sort must be one of " + strings.Join(c.Fields(), ", "),
	}}
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type SortInfo struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

type Result[T any] struct {
	Pagination Pagination `json:"pagination"`
	Sort       SortInfo   `json:"sort"`
	Data       []T        `json:"data"`
}

// Apply sorts items in place with the comparator named by p.Sort (stable, so
// equal keys keep their stored order) and returns the requested page.
func Apply[T any](items []T, p Params, c Comparators[T]) (Result[T], error) {
	if err := c.Validate(p); err != nil {
		return Result[T]{}, err
	}

	less := c[p.Sort]
	slices.SortStableFunc(items, func(a, b T) int {
		if p.Order == OrderDesc {
			return less(b, a)
		}
		return less(a, b)
	})

	return Result[T]{
		Pagination: Pagination{Total: len(items), Page: p.Page, Limit: p.Limit},
		Sort:       SortInfo{Field: p.Sort, Order: p.Order},
		Data:       Paginate(items, p),
	}, nil
}

// Paginate returns the page of items selected by p. Pages past the end are empty.
func Paginate[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

// Filter keeps the items matching keep.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// MatchName is the name filter: a case-sensitive substring match.
func MatchName(value, name string) bool {
	return name == "" || strings.Contains(value, name)
}

// MatchQuery is the free-text search: case-insensitive over any of fields.
func MatchQuery(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func CompareInt(a, b int) int {
	return cmp.Compare(a, b)
}

// CompareString orders case-insensitively.
func CompareString(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareBool orders false before true.
func CompareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
