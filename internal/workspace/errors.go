// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

import "errors"

// ErrNotFound is returned when a requested row does not exist. For property
// values this is meaningful state: a property has no row until a user sets
// it, and callers must render "unset" rather than treat it as a fault.
var ErrNotFound = errors.New("not found")

// ErrTypeMismatch is returned when the two bounds of a range filter carry
// different value types. Mismatches are a data-integrity defect and abort
// the operation; they are never coerced.
var ErrTypeMismatch = errors.New("value type mismatch")

// ErrUnsupportedCombination is returned when a filter type is paired with a
// value type that has no physical relation, e.g. a boolean range. This is a
// caller error and is rejected before any storage call.
var ErrUnsupportedCombination = errors.New("unsupported filter combination")
