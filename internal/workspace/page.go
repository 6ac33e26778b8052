// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

import "github.com/samber/oops"

// PageProp is one slot in a page's property set: either a stored value, or
// just the property's declared type when no row exists yet. Readers render
// the unset state as "click to add content".
type PageProp struct {
	PropID int32
	Type   ValueType
	Value  *Value
}

// IsSet reports whether the page has a stored value for the property.
func (p PageProp) IsSet() bool { return p.Value != nil }

// Page is a document inside a collection. Props follows the collection's
// property ordinals.
type Page struct {
	ID           int32
	CollectionID int32
	Title        string
	Props        []PageProp
	Content      *Content
}

// Content is the free-form body of a page, stored separately and created
// lazily on first write.
type Content struct {
	PageID  int32
	Content string
}

// SortType orders a collection's page listing by one property's value.
type SortType int

const (
	// SortAsc sorts ascending.
	SortAsc SortType = 1
	// SortDesc sorts descending.
	SortDesc SortType = 2
)

// SortTypeFromInt converts a stored integer code back into a SortType.
func SortTypeFromInt(code int) (SortType, error) {
	switch SortType(code) {
	case SortAsc, SortDesc:
		return SortType(code), nil
	default:
		return 0, oops.Code("SORT_TYPE_INVALID").With("code", code).
			Errorf("%d is not a valid sort type", code)
	}
}

// Int returns the stable integer code for the sort type.
func (s SortType) Int() int { return int(s) }

// SQL returns the ORDER BY keyword for the sort type.
func (s SortType) SQL() string {
	if s == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// CollectionSort is a collection's optional page-listing order. PropID and
// Sort are nil when sorting is not enabled.
type CollectionSort struct {
	CollectionID int32
	PropID       *int32
	Sort         *SortType
}
