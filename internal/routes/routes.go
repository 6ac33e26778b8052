// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

// Package routes enumerates the endpoint identifiers the routing layer
// exposes for filter forms and summary chips. The workspace core selects
// among these for link construction but does not own URL handling.
package routes

import "fmt"

// Route identifies one navigable endpoint.
type Route struct {
	path string
}

// Path returns the URL path for the route.
func (r Route) Path() string { return r.path }

func (r Route) String() string { return r.path }

func filterRoute(kind string, filterID int32, chip bool) Route {
	p := fmt.Sprintf("/filter/%s/%d", kind, filterID)
	if chip {
		p += "/chip"
	}
	return Route{path: p}
}

// FilterBool is the form endpoint for a single-value boolean filter.
func FilterBool(filterID int32) Route { return filterRoute("bool", filterID, false) }

// FilterInt is the form endpoint for a single-value integer filter.
func FilterInt(filterID int32) Route { return filterRoute("int", filterID, false) }

// FilterIntRange is the form endpoint for an integer range filter.
func FilterIntRange(filterID int32) Route { return filterRoute("int-rng", filterID, false) }

// FilterFloat is the form endpoint for a single-value float filter.
func FilterFloat(filterID int32) Route { return filterRoute("float", filterID, false) }

// FilterFloatRange is the form endpoint for a float range filter.
func FilterFloatRange(filterID int32) Route { return filterRoute("float-rng", filterID, false) }

// FilterDate is the form endpoint for a single-value date filter.
func FilterDate(filterID int32) Route { return filterRoute("date", filterID, false) }

// FilterDateRange is the form endpoint for a date range filter.
func FilterDateRange(filterID int32) Route { return filterRoute("date-rng", filterID, false) }

// FilterBoolChip is the summary chip endpoint for a boolean filter.
func FilterBoolChip(filterID int32) Route { return filterRoute("bool", filterID, true) }

// FilterIntChip is the summary chip endpoint for an integer filter.
func FilterIntChip(filterID int32) Route { return filterRoute("int", filterID, true) }

// FilterIntRangeChip is the summary chip endpoint for an integer range filter.
func FilterIntRangeChip(filterID int32) Route { return filterRoute("int-rng", filterID, true) }

// FilterFloatChip is the summary chip endpoint for a float filter.
func FilterFloatChip(filterID int32) Route { return filterRoute("float", filterID, true) }

// FilterFloatRangeChip is the summary chip endpoint for a float range filter.
func FilterFloatRangeChip(filterID int32) Route { return filterRoute("float-rng", filterID, true) }

// FilterDateChip is the summary chip endpoint for a date filter.
func FilterDateChip(filterID int32) Route { return filterRoute("date", filterID, true) }

// FilterDateRangeChip is the summary chip endpoint for a date range filter.
func FilterDateRangeChip(filterID int32) Route { return filterRoute("date-rng", filterID, true) }
