package query

import (
	"fmt"

	"reminders/core/reconcile"
)

// Record is a row model that can be shown in a list view.
type Record interface {
	// RowID returns the stable identity of the record.
	RowID() reconcile.RowIdentity

	// Fingerprint changes whenever the shown content of the record changes.
	Fingerprint() string
}

// Request describes a fetch: which rows, in which order, grouped how.
type Request[T Record] struct {
	// Entity is the notification topic that invalidates this request,
	// usually the table name.
	Entity string

	// Where is an optional gorm condition with Args as its parameters.
	Where string
	Args  []any

	// OrderBy is passed to gorm's Order.
	OrderBy string

	// Limit caps the number of rows. Zero means no limit.
	Limit int

	// SectionBy groups rows into sections. Nil puts every row in one
	// section with the empty key, present even when there are no rows.
	SectionBy func(T) string

	// SectionOrder fixes the order of known section keys. Keys not listed
	// follow in order of first appearance. Empty sections are omitted.
	SectionOrder []string
}

// CacheKey identifies the request within its entity.
func (r Request[T]) CacheKey() string {
	return fmt.Sprintf("%s|%v|%s|%d|%v", r.Where, r.Args, r.OrderBy, r.Limit, r.SectionOrder)
}

// group splits rows into sections, keeping their fetched order within each.
func (r Request[T]) group(rows []T) ([]string, [][]T) {
	if r.SectionBy == nil {
		return []string{""}, [][]T{rows}
	}

	byKey := make(map[string][]T)
	var seen []string
	for _, row := range rows {
		k := r.SectionBy(row)
		if _, ok := byKey[k]; !ok {
			seen = append(seen, k)
		}
		byKey[k] = append(byKey[k], row)
	}

	var keys []string
	var groups [][]T
	listed := make(map[string]struct{}, len(r.SectionOrder))
	for _, k := range r.SectionOrder {
		listed[k] = struct{}{}
		if g, ok := byKey[k]; ok {
			keys = append(keys, k)
			groups = append(groups, g)
		}
	}
	for _, k := range seen {
		if _, ok := listed[k]; ok {
			continue
		}
		keys = append(keys, k)
		groups = append(groups, byKey[k])
	}
	return keys, groups
}
