// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

// Package workspace defines the typed property and filter model: pages live
// in collections, each page carries a fixed schema of typed properties, and
// collections can be narrowed by stored filters over those properties.
package workspace

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/oops"
)

// ValueType identifies the scalar kind of a property value.
type ValueType int

// Stable integer codes, persisted in the property table. Codes 4 and 5 were
// consumed by since-removed kinds and must never be reassigned.
const (
	TypeBool  ValueType = 1
	TypeInt   ValueType = 2
	TypeFloat ValueType = 3
	TypeDate  ValueType = 6
)

// ValueTypes lists every supported value type.
func ValueTypes() []ValueType {
	return []ValueType{TypeBool, TypeInt, TypeFloat, TypeDate}
}

// ValueTypeFromInt converts a stored integer code back into a ValueType.
// An unknown code indicates data corruption or a programming error, never
// user input, so failures carry the VALUE_TYPE_INVALID code.
func ValueTypeFromInt(code int) (ValueType, error) {
	switch ValueType(code) {
	case TypeBool, TypeInt, TypeFloat, TypeDate:
		return ValueType(code), nil
	default:
		return 0, oops.Code("VALUE_TYPE_INVALID").With("code", code).
			Errorf("%d is not a valid value type", code)
	}
}

// Int returns the stable integer code for the value type.
func (t ValueType) Int() int { return int(t) }

// String returns a human-readable name for the value type.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Value is a closed tagged union carrying exactly one scalar. The zero Value
// is invalid; always construct through BoolValue, IntValue, FloatValue or
// DateValue so the discriminant matches the scalar.
type Value struct {
	kind ValueType
	b    bool
	i    int64
	f    float64
	d    time.Time
}

// BoolValue wraps a boolean scalar.
func BoolValue(v bool) Value { return Value{kind: TypeBool, b: v} }

// IntValue wraps an integer scalar.
func IntValue(v int64) Value { return Value{kind: TypeInt, i: v} }

// FloatValue wraps a float scalar.
func FloatValue(v float64) Value { return Value{kind: TypeFloat, f: v} }

// DateValue wraps a calendar date. The time-of-day portion is dropped.
func DateValue(v time.Time) Value {
	y, m, d := v.Date()
	return Value{kind: TypeDate, d: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Type returns the discriminant of the value.
func (v Value) Type() ValueType { return v.kind }

// Bool returns the boolean scalar and whether the value holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == TypeBool }

// Int returns the integer scalar and whether the value holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == TypeInt }

// Float returns the float scalar and whether the value holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == TypeFloat }

// Date returns the date scalar and whether the value holds one.
func (v Value) Date() (time.Time, bool) { return v.d, v.kind == TypeDate }

// String renders the scalar for display.
func (v Value) String() string {
	switch v.kind {
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeDate:
		return v.d.Format("2006-01-02")
	default:
		return "<invalid>"
	}
}

// SQL renders the scalar as a SQL literal for the page-list query builder.
// Only strongly typed scalars are interpolated, so there is no injection
// vector; string-typed properties would need bind parameters instead.
func (v Value) SQL() string {
	switch v.kind {
	case TypeBool:
		if v.b {
			return "true"
		}
		return "false"
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeDate:
		return "'" + v.d.Format("2006-01-02") + "'"
	default:
		return "null"
	}
}

// Today returns the current calendar date, the default for new date filters.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
