// Package listview implements the list-page projection shared by every
// resource page: a free-text query matched as a case-insensitive substring
// over a fixed set of fields, plus zero or more categorical predicates that
// require an exact match. The projection is pure - it never mutates the
// source slice, preserves order, and is idempotent.
package listview

import "strings"

// FieldsFunc returns the searchable field values of an entity. Which fields
// participate in free-text search is fixed per entity (name/email/cpf for
// participants, title/code/coordinator for projects, and so on).
type FieldsFunc[T any] func(T) []string

// Predicate is a categorical filter. An unset selection should not be turned
// into a Predicate at all - absence means "no constraint".
type Predicate[T any] func(T) bool

// Equals builds a Predicate for an exact categorical match. An empty
// selection yields a nil Predicate, which Filter skips.
func Equals[T any](selection string, field func(T) string) Predicate[T] {
	if selection == "" {
		return nil
	}
	return func(item T) bool { return field(item) == selection }
}

// Filter projects items through the free-text query and categorical
// predicates. An empty query matches everything; nil predicates are skipped.
// When nothing is filtered out the source slice is returned as-is.
func Filter[T any](items []T, query string, fields FieldsFunc[T], preds ...Predicate[T]) []T {
	query = strings.ToLower(strings.TrimSpace(query))

	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if query == "" && len(active) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, p := range active {
			if !p(item) {
				continue outer
			}
		}
		if query != "" && !matchesQuery(item, query, fields) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery[T any](item T, query string, fields FieldsFunc[T]) bool {
	if fields == nil {
		return false
	}
	for _, f := range fields(item) {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// SumBy totals a numeric projection of the items, e.g. allocated funding values.
func SumBy[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// CountBy counts the items satisfying the predicate.
func CountBy[T any](items []T, pred Predicate[T]) int {
	if pred == nil {
		return len(items)
	}
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// EmptyState distinguishes "nothing ever loaded" from "filters exclude
// everything" so pages can show the right empty message.
type EmptyState int

const (
	NotEmpty EmptyState = iota
	NothingLoaded
	FilteredOut
)

// Emptiness classifies a filtered render given the source and filtered sizes.
func Emptiness(sourceLen, filteredLen int) EmptyState {
	switch {
	case filteredLen > 0:
		return NotEmpty
	case sourceLen == 0:
		return NothingLoaded
	default:
		return FilteredOut
	}
}
