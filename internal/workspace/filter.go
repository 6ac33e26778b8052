// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/collate-app/collate/internal/routes"
)

// FilterType enumerates the supported predicate kinds.
type FilterType int

// Stable integer codes, persisted in the type_id column of every filter
// relation.
const (
	FilterEq FilterType = iota + 1
	FilterNeq
	FilterGt
	FilterLt
	FilterInRange
	FilterNotInRange
	FilterIsEmpty
)

// FilterTypeFromInt converts a stored integer code back into a FilterType.
func FilterTypeFromInt(code int) (FilterType, error) {
	if code < int(FilterEq) || code > int(FilterIsEmpty) {
		return 0, oops.Code("FILTER_TYPE_INVALID").With("code", code).
			Errorf("%d is not a valid filter type", code)
	}
	return FilterType(code), nil
}

// Int returns the stable integer code for the filter type.
func (t FilterType) Int() int { return int(t) }

// Shape returns the filter-value shape the predicate operates on.
func (t FilterType) Shape() Shape {
	if t == FilterInRange || t == FilterNotInRange {
		return ShapeRange
	}
	return ShapeSingle
}

// DisplayName returns the user-facing label for the predicate.
func (t FilterType) DisplayName() string {
	switch t {
	case FilterEq:
		return "Exactly Equals"
	case FilterNeq:
		return "Does not Equal"
	case FilterGt:
		return "Is Greater Than"
	case FilterLt:
		return "Is Less Than"
	case FilterInRange:
		return "Is Inside Range"
	case FilterNotInRange:
		return "Is Not Inside Range"
	case FilterIsEmpty:
		return "Is Empty"
	default:
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
}

func (t FilterType) String() string { return t.DisplayName() }

// Operator returns the SQL comparison operator for directly translatable
// predicates. Range and emptiness predicates have no single operator.
func (t FilterType) Operator() (string, error) {
	switch t {
	case FilterEq:
		return "=", nil
	case FilterNeq:
		return "!=", nil
	case FilterGt:
		return ">", nil
	case FilterLt:
		return "<", nil
	default:
		return "", oops.Code("FILTER_TYPE_NO_OPERATOR").With("filter_type", t.DisplayName()).
			Errorf("%s cannot be directly translated into a SQL operator", t)
	}
}

// SupportedFilterTypes returns the predicates offered for a property of the
// given value type. Booleans have no ordering and no range relation, so only
// equality and emptiness apply.
func SupportedFilterTypes(vt ValueType) []FilterType {
	if vt == TypeBool {
		return []FilterType{FilterEq, FilterNeq, FilterIsEmpty}
	}
	return []FilterType{
		FilterEq,
		FilterGt,
		FilterNeq,
		FilterLt,
		FilterInRange,
		FilterNotInRange,
		FilterIsEmpty,
	}
}

// FormRoute selects the routing-layer endpoint for the filter's edit form.
// Boolean ranges have no endpoint; requesting one is a caller error.
func (t FilterType) FormRoute(filterID int32, vt ValueType) (routes.Route, error) {
	if t.Shape() == ShapeSingle {
		switch vt {
		case TypeBool:
			return routes.FilterBool(filterID), nil
		case TypeInt:
			return routes.FilterInt(filterID), nil
		case TypeFloat:
			return routes.FilterFloat(filterID), nil
		case TypeDate:
			return routes.FilterDate(filterID), nil
		}
	} else {
		switch vt {
		case TypeInt:
			return routes.FilterIntRange(filterID), nil
		case TypeFloat:
			return routes.FilterFloatRange(filterID), nil
		case TypeDate:
			return routes.FilterDateRange(filterID), nil
		case TypeBool:
			return routes.Route{}, oops.Code("FILTER_COMBINATION_UNSUPPORTED").
				Wrapf(ErrUnsupportedCombination, "boolean range filters are not supported")
		}
	}
	return routes.Route{}, oops.Code("VALUE_TYPE_INVALID").
		Errorf("%d is not a valid value type", int(vt))
}

// ChipRoute selects the routing-layer endpoint for the filter's summary chip.
func (t FilterType) ChipRoute(filterID int32, vt ValueType) (routes.Route, error) {
	if t.Shape() == ShapeSingle {
		switch vt {
		case TypeBool:
			return routes.FilterBoolChip(filterID), nil
		case TypeInt:
			return routes.FilterIntChip(filterID), nil
		case TypeFloat:
			return routes.FilterFloatChip(filterID), nil
		case TypeDate:
			return routes.FilterDateChip(filterID), nil
		}
	} else {
		switch vt {
		case TypeInt:
			return routes.FilterIntRangeChip(filterID), nil
		case TypeFloat:
			return routes.FilterFloatRangeChip(filterID), nil
		case TypeDate:
			return routes.FilterDateRangeChip(filterID), nil
		case TypeBool:
			return routes.Route{}, oops.Code("FILTER_COMBINATION_UNSUPPORTED").
				Wrapf(ErrUnsupportedCombination, "boolean range filters are not supported")
		}
	}
	return routes.Route{}, oops.Code("VALUE_TYPE_INVALID").
		Errorf("%d is not a valid value type", int(vt))
}

// Shape distinguishes single-value filters from range filters. The two
// shapes live in different physical relations.
type Shape int

const (
	// ShapeSingle marks filters carrying one value (Eq, Neq, Gt, Lt, IsEmpty).
	ShapeSingle Shape = iota
	// ShapeRange marks filters carrying a (start, end) pair (InRange, NotInRange).
	ShapeRange
)

func (s Shape) String() string {
	if s == ShapeRange {
		return "range"
	}
	return "single"
}

// FilterValue carries either one value or a (start, end) pair of the same
// value type. Construct through NewSingle or NewRange.
type FilterValue struct {
	shape Shape
	value Value
	end   Value
}

// NewSingle wraps one value for a single-shaped filter.
func NewSingle(v Value) FilterValue {
	return FilterValue{shape: ShapeSingle, value: v}
}

// NewRange wraps a (start, end) pair. Both bounds must share a value type;
// mixed bounds fail with ErrTypeMismatch.
func NewRange(start, end Value) (FilterValue, error) {
	if start.Type() != end.Type() {
		return FilterValue{}, oops.Code("FILTER_RANGE_MISMATCH").
			With("start_type", start.Type().String()).
			With("end_type", end.Type().String()).
			Wrapf(ErrTypeMismatch, "%s and %s are different value types for ranged filter", start.Type(), end.Type())
	}
	if start.Type() == TypeBool {
		return FilterValue{}, oops.Code("FILTER_COMBINATION_UNSUPPORTED").
			Wrapf(ErrUnsupportedCombination, "boolean range filters are not supported")
	}
	return FilterValue{shape: ShapeRange, value: start, end: end}, nil
}

// Shape returns whether the filter value is single or ranged.
func (fv FilterValue) Shape() Shape { return fv.shape }

// Type returns the value type shared by the carried scalar(s).
func (fv FilterValue) Type() ValueType { return fv.value.Type() }

// Single returns the carried value of a single-shaped filter value.
func (fv FilterValue) Single() (Value, bool) {
	return fv.value, fv.shape == ShapeSingle
}

// Range returns the (start, end) pair of a range-shaped filter value.
func (fv FilterValue) Range() (Value, Value, bool) {
	return fv.value, fv.end, fv.shape == ShapeRange
}

// Filter is a stored predicate over one property. It physically lives in
// exactly one of the seven type/shape-specific relations, selected by
// (Value.Shape, Value.Type).
type Filter struct {
	ID     int32
	PropID int32
	Type   FilterType
	Value  FilterValue
}

// Key returns the composite identifier for the filter. Ids are serial per
// relation and collide across relations, so (id, value type, shape) is the
// smallest unambiguous handle.
func (f Filter) Key() FilterKey {
	return FilterKey{ID: f.ID, ValueType: f.Value.Type(), Shape: f.Value.Shape()}
}

// FilterKey addresses one filter row across the seven relations.
type FilterKey struct {
	ID        int32
	ValueType ValueType
	Shape     Shape
}
