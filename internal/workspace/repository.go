// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

import "context"

// PropValRepository is the typed storage adapter for property values. Values
// are physically segregated into one relation per value type; every method
// dispatches on the value's type to exactly one relation.
type PropValRepository interface {
	// Get retrieves the value for (pageID, propID), resolving the value
	// type from the property schema. Returns ErrNotFound when the property
	// does not exist or no value has been set.
	Get(ctx context.Context, pageID, propID int32) (PropVal, error)

	// GetTyped retrieves the value when the caller already knows the type,
	// skipping the schema lookup.
	GetTyped(ctx context.Context, pageID, propID int32, vt ValueType) (PropVal, error)

	// List returns all values for the given pages across every typed
	// relation. Ordering across types is unspecified.
	List(ctx context.Context, pageIDs []int32) ([]PropVal, error)

	// Save upserts the value keyed on (page_id, prop_id): insert if absent,
	// overwrite if present, in a single statement.
	Save(ctx context.Context, pv PropVal) error
}

// FilterRepository manages stored filters across the seven type/shape
// relations.
type FilterRepository interface {
	// Get retrieves one filter by its composite key.
	Get(ctx context.Context, key FilterKey) (Filter, error)

	// List returns every filter attached to the collection's properties,
	// across all seven relations. Ordering across relations is unspecified.
	List(ctx context.Context, collectionID int32) ([]Filter, error)

	// Create inserts a filter with a type-appropriate default value and
	// returns it with its assigned id.
	Create(ctx context.Context, propID int32, ft FilterType, vt ValueType) (Filter, error)

	// Save updates the filter's type and value in place. Changing shape
	// requires delete-then-recreate since the physical relation differs.
	Save(ctx context.Context, f Filter) error

	// Delete removes the filter from its relation.
	Delete(ctx context.Context, f Filter) error

	// HasCapacity reports whether at least one property in the collection
	// carries no filter in any relation. Recomputed live on every call.
	HasCapacity(ctx context.Context, collectionID int32) (bool, error)
}

// PropertyRepository manages the property schema of collections.
type PropertyRepository interface {
	// Get retrieves a property by id.
	Get(ctx context.Context, id int32) (Prop, error)

	// ListByCollection returns the collection's properties sorted by
	// ordinal.
	ListByCollection(ctx context.Context, collectionID int32) ([]Prop, error)

	// ListByOrdinals returns the collection's properties holding any of the
	// given ordinals.
	ListByOrdinals(ctx context.Context, collectionID int32, ordinals []int16) ([]Prop, error)

	// Create persists a new property.
	Create(ctx context.Context, p *Prop) error

	// Save updates a property's name and ordinal.
	Save(ctx context.Context, p Prop) error

	// Delete removes a property. Value and filter rows cascade via the
	// schema's foreign keys.
	Delete(ctx context.Context, id int32) error
}

// PageRepository manages pages and their content.
type PageRepository interface {
	// Get retrieves a page with its content, when any.
	Get(ctx context.Context, id int32) (Page, error)

	// Create inserts a new page into a collection.
	Create(ctx context.Context, collectionID int32, title string) error

	// Save updates the page title.
	Save(ctx context.Context, p Page) error

	// SaveContent upserts the page body.
	SaveContent(ctx context.Context, c Content) error

	// ListPages returns one result page of the collection's pages with
	// their property values resolved, narrowed by the collection's filters
	// and ordered by its sort, when configured.
	ListPages(ctx context.Context, collectionID int32, pageNumber int32) ([]Page, []Prop, error)
}

// CollectionRepository reads collection metadata and its listing sort.
type CollectionRepository interface {
	// GetName returns the collection's display name.
	GetName(ctx context.Context, id int32) (string, error)

	// GetSort returns the collection's listing sort. Returns ErrNotFound
	// when sorting is not configured.
	GetSort(ctx context.Context, collectionID int32) (CollectionSort, error)

	// SaveSort updates the collection's listing sort.
	SaveSort(ctx context.Context, s CollectionSort) error
}

// Transactor runs a function inside a storage transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
