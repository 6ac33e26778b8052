// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRoutes(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		want  string
	}{
		{name: "bool form", route: FilterBool(1), want: "/filter/bool/1"},
		{name: "int form", route: FilterInt(2), want: "/filter/int/2"},
		{name: "int range form", route: FilterIntRange(3), want: "/filter/int-rng/3"},
		{name: "float form", route: FilterFloat(4), want: "/filter/float/4"},
		{name: "float range form", route: FilterFloatRange(5), want: "/filter/float-rng/5"},
		{name: "date form", route: FilterDate(6), want: "/filter/date/6"},
		{name: "date range form", route: FilterDateRange(7), want: "/filter/date-rng/7"},
		{name: "bool chip", route: FilterBoolChip(1), want: "/filter/bool/1/chip"},
		{name: "int chip", route: FilterIntChip(2), want: "/filter/int/2/chip"},
		{name: "int range chip", route: FilterIntRangeChip(3), want: "/filter/int-rng/3/chip"},
		{name: "float chip", route: FilterFloatChip(4), want: "/filter/float/4/chip"},
		{name: "float range chip", route: FilterFloatRangeChip(5), want: "/filter/float-rng/5/chip"},
		{name: "date chip", route: FilterDateChip(6), want: "/filter/date/6/chip"},
		{name: "date range chip", route: FilterDateRangeChip(7), want: "/filter/date-rng/7/chip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.route.Path())
			assert.Equal(t, tt.want, tt.route.String())
		})
	}
}
