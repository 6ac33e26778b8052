// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

// Prop declares one typed attribute available on pages within a collection.
// Ordinal defines display order and is mutated only through reorder moves.
type Prop struct {
	ID           int32
	CollectionID int32
	Name         string
	Type         ValueType
	Ordinal      int16
}

// PropVal is the concrete value of one property on one page. Conceptually
// one row per (page, property) pair; physically one row in the relation
// matching Value's type.
type PropVal struct {
	PageID int32
	PropID int32
	Value  Value
}

// Direction selects which neighbor a property swaps ordinals with.
type Direction int

const (
	// MoveUp swaps the property with the neighbor one ordinal earlier.
	MoveUp Direction = iota
	// MoveDown swaps the property with the neighbor one ordinal later.
	MoveDown
)

func (d Direction) String() string {
	if d == MoveDown {
		return "down"
	}
	return "up"
}
