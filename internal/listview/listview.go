// Package listview implements the querying every list screen shares:
// free-text search, equality filters, ordering and pagination over an
// already-fetched collection. Queries are pure functions of their input,
// so applying the same query twice always renders the same page.
package listview

import (
	"sort"
	"strings"
	"time"
)

// DefaultPageSize is used when a view does not configure its own.
const DefaultPageSize = 10

// Config declares how a collection of T is queried.
type Config[T any] struct {
	// SearchFields extract the strings free-text search scans.
	SearchFields []func(T) string
	// FilterFields extract the values equality filters compare against,
	// keyed by filter name (e.g. "status", "type", "department").
	FilterFields map[string]func(T) string
	// SortKey extracts the timestamp lists are ordered by, newest first.
	SortKey func(T) time.Time
	// PageSize is the fixed page size; non-positive selects DefaultPageSize.
	PageSize int
}

// Query is one view request.
type Query struct {
	// Search is matched case-insensitively as a substring against every
	// configured search field; an item matches when any field does.
	Search string
	// Filters are exact-match constraints; empty values are ignored, as
	// are names the view does not declare.
	Filters map[string]string
	// Page is 1-based. Zero and negative values mean the first page.
	Page int
}

// Result is one rendered page plus its paging arithmetic.
type Result[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// View applies queries to collections of T.
type View[T any] struct {
	cfg Config[T]
}

// New creates a view from the config.
func New[T any](cfg Config[T]) *View[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &View[T]{cfg: cfg}
}

// Apply runs the query: search, then filters, then a stable sort by the
// sort key descending (ties keep their input order), then pagination.
// The input slice is never modified.
func (v *View[T]) Apply(items []T, q Query) Result[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if v.matchesSearch(item, q.Search) && v.matchesFilters(item, q.Filters) {
			filtered = append(filtered, item)
		}
	}

	if v.cfg.SortKey != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return v.cfg.SortKey(filtered[i]).After(v.cfg.SortKey(filtered[j]))
		})
	}

	pageSize := v.cfg.PageSize
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	page := q.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	var pageItems []T
	if start < total {
		if end > total {
			end = total
		}
		pageItems = make([]T, end-start)
		copy(pageItems, filtered[start:end])
	}

	return Result[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func (v *View[T]) matchesSearch(item T, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range v.cfg.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), search) {
			return true
		}
	}
	return false
}

func (v *View[T]) matchesFilters(item T, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		field, ok := v.cfg.FilterFields[name]
		if !ok {
			continue
		}
		if field(item) != want {
			return false
		}
	}
	return true
}
