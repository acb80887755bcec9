package core

// listview.go implements the shared filter/paginate engine behind every list screen.
//
// A screen supplies a ScreenFields map naming its searchable fields, the one
// date field a range applies to, and its categorical fields. The engine applies
// the predicates in order (text, date range, categories), then windows the result.
// Empty predicates match every row. Insertion order is preserved; callers that
// need an order apply SortRows first.

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Category is one categorical field of a screen.
type Category[T any] struct {
	Value func(T) string

	// FoldCase compares lower-cased values instead of exact ones.
	FoldCase bool
}

// ScreenFields describes how a screen's rows are searched and filtered.
type ScreenFields[T any] struct {
	Search     []func(T) string
	Date       func(T) string // raw wire date; nil disables range filtering
	Categories map[string]Category[T]
	Location   *time.Location // zone used to parse date-only row values; nil means time.Local
}

// FilterSpec is the active set of predicates for a list view.
type FilterSpec struct {
	Query string

	// From and To are inclusive bounds. A zero value leaves that side open.
	From time.Time
	To   time.Time

	Categories map[string]string
}

// Key returns a canonical encoding of the filter, stable across map ordering.
func (f FilterSpec) Key() string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(strconv.Quote(strings.TrimSpace(f.Query)))
	if !f.From.IsZero() {
		b.WriteString(";from=")
		b.WriteString(strconv.FormatInt(f.From.Unix(), 10))
	}
	if !f.To.IsZero() {
		b.WriteString(";to=")
		b.WriteString(strconv.FormatInt(f.To.Unix(), 10))
	}
	names := make([]string, 0, len(f.Categories))
	for name, v := range f.Categories {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(";")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(strconv.Quote(f.Categories[name]))
	}
	return b.String()
}

// Changed reports whether any predicate differs from prev.
func (f FilterSpec) Changed(prev FilterSpec) bool {
	return f.Key() != prev.Key()
}

// ResetOnChange returns 1 when next differs from prev, otherwise page unchanged.
func ResetOnChange(prev, next FilterSpec, page int) int {
	if next.Changed(prev) {
		return 1
	}
	return page
}

// Page is one window of a filtered list.
type Page[T any] struct {
	Rows         []T `json:"rows"`
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalMatched int `json:"totalMatched"`
	TotalPages   int `json:"totalPages"`
}

// View filters rows by spec and returns the requested page.
// Out-of-range pages are clamped, never rejected.
func View[T any](rows []T, spec FilterSpec, page, pageSize int, fields ScreenFields[T]) Page[T] {
	return Paginate(Filter(rows, spec, fields), page, pageSize)
}

// Filter returns the rows matching every active predicate of spec, in input order.
func Filter[T any](rows []T, spec FilterSpec, fields ScreenFields[T]) []T {
	query := strings.ToLower(strings.TrimSpace(spec.Query))
	rangeSet := fields.Date != nil && (!spec.From.IsZero() || !spec.To.IsZero())

	loc := fields.Location
	if loc == nil {
		loc = time.Local
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if query != "" && !matchesQuery(row, query, fields.Search) {
			continue
		}
		if rangeSet && !inRange(fields.Date(row), spec.From, spec.To, loc) {
			continue
		}
		if !matchesCategories(row, spec.Categories, fields.Categories) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Paginate windows already-filtered rows. pageSize < 1 is treated as 1.
func Paginate[T any](filtered []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	window := make([]T, end-start)
	copy(window, filtered[start:end])

	return Page[T]{
		Rows:         window,
		Page:         page,
		PageSize:     pageSize,
		TotalMatched: total,
		TotalPages:   totalPages,
	}
}

// SortRows returns a stably sorted copy of rows.
func SortRows[T any](rows []T, less func(a, b T) bool) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func matchesQuery[T any](row T, query string, search []func(T) string) bool {
	for _, field := range search {
		if strings.Contains(strings.ToLower(field(row)), query) {
			return true
		}
	}
	return false
}

// inRange treats a missing or unparseable date as the Unix epoch, so such rows
// fail any lower bound but pass an upper-only range.
func inRange(raw string, from, to time.Time, loc *time.Location) bool {
	ts, ok := ParseTimestamp(raw, loc)
	if !ok {
		ts = time.Unix(0, 0)
	}
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}

func matchesCategories[T any](row T, active map[string]string, defs map[string]Category[T]) bool {
	for name, want := range active {
		if want == "" {
			continue
		}
		def, ok := defs[name]
		if !ok {
			continue
		}
		got := def.Value(row)
		if def.FoldCase {
			if strings.ToLower(got) != strings.ToLower(want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
