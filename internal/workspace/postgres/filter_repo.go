// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/collate-app/collate/internal/observability"
	"github.com/collate-app/collate/internal/workspace"
)

// filterSingleTables maps a value type to its single-value filter relation.
var filterSingleTables = map[workspace.ValueType]string{
	workspace.TypeBool:  "filter_bool",
	workspace.TypeInt:   "filter_int",
	workspace.TypeFloat: "filter_float",
	workspace.TypeDate:  "filter_date",
}

// filterRangeTables maps a value type to its range filter relation. There is
// no boolean range relation.
var filterRangeTables = map[workspace.ValueType]string{
	workspace.TypeInt:   "filter_int_range",
	workspace.TypeFloat: "filter_float_range",
	workspace.TypeDate:  "filter_date_range",
}

// filterRelation resolves the physical relation for a (value type, shape)
// pair. Ids are serial per relation, which is why every lookup needs the
// full pair alongside the id.
func filterRelation(vt workspace.ValueType, shape workspace.Shape) (string, error) {
	tables := filterSingleTables
	if shape == workspace.ShapeRange {
		tables = filterRangeTables
	}
	table, ok := tables[vt]
	if !ok {
		return "", oops.Code("FILTER_COMBINATION_UNSUPPORTED").
			With("value_type", vt.String()).
			With("shape", shape.String()).
			Wrapf(workspace.ErrUnsupportedCombination, "no %s filter relation exists for %s values", shape, vt)
	}
	return table, nil
}

// FilterRepository implements workspace.FilterRepository using PostgreSQL.
type FilterRepository struct {
	db DB
}

// NewFilterRepository creates a new FilterRepository.
func NewFilterRepository(db DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// Get retrieves one filter by its composite (id, value type, shape) key.
func (r *FilterRepository) Get(ctx context.Context, key workspace.FilterKey) (workspace.Filter, error) {
	table, err := filterRelation(key.ValueType, key.Shape)
	if err != nil {
		return workspace.Filter{}, err
	}

	var f workspace.Filter
	if key.Shape == workspace.ShapeSingle {
		row := r.db.QueryRow(ctx,
			`SELECT id, type_id, prop_id, value FROM `+table+` WHERE id = $1`, key.ID)
		f, err = scanSingleFilter(row, key.ValueType)
	} else {
		row := r.db.QueryRow(ctx,
			`SELECT id, type_id, prop_id, start, "end" FROM `+table+` WHERE id = $1`, key.ID)
		f, err = scanRangeFilter(row, key.ValueType)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.Filter{}, oops.Code("FILTER_NOT_FOUND").
			With("filter_id", key.ID).
			With("relation", table).
			Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return workspace.Filter{}, oops.Code("FILTER_GET_FAILED").
			With("filter_id", key.ID).
			With("relation", table).
			Wrap(err)
	}
	return f, nil
}

// List returns every filter attached to the collection's properties. All
// seven relations are queried concurrently, each joined against property on
// collection_id, and concatenated. Order across relations is unspecified.
func (r *FilterRepository) List(ctx context.Context, collectionID int32) ([]workspace.Filter, error) {
	queries := []struct {
		vt    workspace.ValueType
		shape workspace.Shape
	}{
		{workspace.TypeBool, workspace.ShapeSingle},
		{workspace.TypeInt, workspace.ShapeSingle},
		{workspace.TypeInt, workspace.ShapeRange},
		{workspace.TypeFloat, workspace.ShapeSingle},
		{workspace.TypeFloat, workspace.ShapeRange},
		{workspace.TypeDate, workspace.ShapeSingle},
		{workspace.TypeDate, workspace.ShapeRange},
	}

	results := make([][]workspace.Filter, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			fs, err := r.listRelation(gctx, collectionID, q.vt, q.shape)
			if err != nil {
				return err
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, fs := range results {
		total += len(fs)
	}
	all := make([]workspace.Filter, 0, total)
	for _, fs := range results {
		all = append(all, fs...)
	}
	return all, nil
}

// Create inserts a filter with a type-appropriate default value and returns
// it with the relation-assigned id. Boolean ranges are rejected before any
// storage call.
func (r *FilterRepository) Create(ctx context.Context, propID int32, ft workspace.FilterType, vt workspace.ValueType) (workspace.Filter, error) {
	shape := ft.Shape()
	table, err := filterRelation(vt, shape)
	if err != nil {
		return workspace.Filter{}, err
	}

	fv := defaultFilterValue(ft, vt)

	var id int32
	if shape == workspace.ShapeSingle {
		single, _ := fv.Single()
		err = r.db.QueryRow(ctx,
			`INSERT INTO `+table+` (type_id, prop_id, value) VALUES ($1, $2, $3) RETURNING id`,
			ft.Int(), propID, scalarOf(single)).Scan(&id)
	} else {
		start, end, _ := fv.Range()
		err = r.db.QueryRow(ctx,
			`INSERT INTO `+table+` (type_id, prop_id, start, "end") VALUES ($1, $2, $3, $4) RETURNING id`,
			ft.Int(), propID, scalarOf(start), scalarOf(end)).Scan(&id)
	}
	if err != nil {
		return workspace.Filter{}, oops.Code("FILTER_CREATE_FAILED").
			With("prop_id", propID).
			With("relation", table).
			Wrap(err)
	}

	observability.RecordFilterOp("create")
	return workspace.Filter{ID: id, PropID: propID, Type: ft, Value: fv}, nil
}

// Save updates the filter's type and value in place. The physical relation
// is derived from the value, so changing shape requires delete-then-recreate
// instead.
func (r *FilterRepository) Save(ctx context.Context, f workspace.Filter) error {
	if f.Type.Shape() != f.Value.Shape() {
		return oops.Code("FILTER_COMBINATION_UNSUPPORTED").
			With("filter_type", f.Type.DisplayName()).
			With("shape", f.Value.Shape().String()).
			Wrapf(workspace.ErrUnsupportedCombination, "%s filters cannot carry a %s value", f.Type, f.Value.Shape())
	}

	table, err := filterRelation(f.Value.Type(), f.Value.Shape())
	if err != nil {
		return err
	}

	var tag int64
	if f.Value.Shape() == workspace.ShapeSingle {
		single, _ := f.Value.Single()
		res, execErr := execerFromCtx(ctx, r.db).Exec(ctx,
			`UPDATE `+table+` SET type_id = $1, value = $2 WHERE id = $3`,
			f.Type.Int(), scalarOf(single), f.ID)
		if execErr != nil {
			return oops.Code("FILTER_SAVE_FAILED").With("filter_id", f.ID).With("relation", table).Wrap(execErr)
		}
		tag = res.RowsAffected()
	} else {
		start, end, _ := f.Value.Range()
		if start.Type() != end.Type() {
			return oops.Code("FILTER_RANGE_MISMATCH").
				With("start_type", start.Type().String()).
				With("end_type", end.Type().String()).
				Wrapf(workspace.ErrTypeMismatch, "%s and %s are different value types for ranged filter", start.Type(), end.Type())
		}
		res, execErr := execerFromCtx(ctx, r.db).Exec(ctx,
			`UPDATE `+table+` SET type_id = $1, start = $2, "end" = $3 WHERE id = $4`,
			f.Type.Int(), scalarOf(start), scalarOf(end), f.ID)
		if execErr != nil {
			return oops.Code("FILTER_SAVE_FAILED").With("filter_id", f.ID).With("relation", table).Wrap(execErr)
		}
		tag = res.RowsAffected()
	}

	if tag == 0 {
		return oops.Code("FILTER_NOT_FOUND").
			With("filter_id", f.ID).
			With("relation", table).
			Wrap(workspace.ErrNotFound)
	}

	observability.RecordFilterOp("save")
	return nil
}

// Delete removes the filter from its relation, freeing the property's
// filter slot.
func (r *FilterRepository) Delete(ctx context.Context, f workspace.Filter) error {
	table, err := filterRelation(f.Value.Type(), f.Value.Shape())
	if err != nil {
		return err
	}

	res, err := execerFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, f.ID)
	if err != nil {
		return oops.Code("FILTER_DELETE_FAILED").With("filter_id", f.ID).With("relation", table).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("FILTER_NOT_FOUND").
			With("filter_id", f.ID).
			With("relation", table).
			Wrap(workspace.ErrNotFound)
	}

	observability.RecordFilterOp("delete")
	return nil
}

// HasCapacity reports whether at least one property in the collection has no
// filter row in any of the seven relations. This recomputes from scratch on
// every call; there is no single source-of-truth table for "does this
// property have a filter", and a cached counter would go stale under
// concurrent creation and deletion.
func (r *FilterRepository) HasCapacity(ctx context.Context, collectionID int32) (bool, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT count(1) FROM property p
		LEFT JOIN filter_bool fb ON p.id = fb.prop_id
		LEFT JOIN filter_int fi ON p.id = fi.prop_id
		LEFT JOIN filter_int_range fir ON p.id = fir.prop_id
		LEFT JOIN filter_float ff ON p.id = ff.prop_id
		LEFT JOIN filter_float_range ffr ON p.id = ffr.prop_id
		LEFT JOIN filter_date fd ON p.id = fd.prop_id
		LEFT JOIN filter_date_range fdr ON p.id = fdr.prop_id
		WHERE p.collection_id = $1
			AND fb.id IS NULL
			AND fi.id IS NULL
			AND fir.id IS NULL
			AND ff.id IS NULL
			AND ffr.id IS NULL
			AND fd.id IS NULL
			AND fdr.id IS NULL
	`, collectionID).Scan(&count)
	if err != nil {
		return false, oops.Code("FILTER_CAPACITY_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	return count > 0, nil
}

func (r *FilterRepository) listRelation(ctx context.Context, collectionID int32, vt workspace.ValueType, shape workspace.Shape) ([]workspace.Filter, error) {
	table, err := filterRelation(vt, shape)
	if err != nil {
		return nil, err
	}

	columns := `f.id, f.type_id, f.prop_id, f.value`
	if shape == workspace.ShapeRange {
		columns = `f.id, f.type_id, f.prop_id, f.start, f."end"`
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+columns+` FROM `+table+` f
		 JOIN property p ON p.id = f.prop_id
		 WHERE p.collection_id = $1`,
		collectionID)
	if err != nil {
		return nil, oops.Code("FILTER_QUERY_FAILED").With("relation", table).Wrap(err)
	}
	defer rows.Close()

	filters := make([]workspace.Filter, 0)
	for rows.Next() {
		var f workspace.Filter
		if shape == workspace.ShapeSingle {
			f, err = scanSingleFilter(rows, vt)
		} else {
			f, err = scanRangeFilter(rows, vt)
		}
		if err != nil {
			return nil, oops.Code("FILTER_SCAN_FAILED").With("relation", table).Wrap(err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FILTER_ITERATE_FAILED").With("relation", table).Wrap(err)
	}
	return filters, nil
}

// scanSingleFilter scans (id, type_id, prop_id, value) with the value column
// typed per relation.
func scanSingleFilter(row pgx.Row, vt workspace.ValueType) (workspace.Filter, error) {
	var (
		id, propID int32
		typeID     int
		value      workspace.Value
	)
	switch vt {
	case workspace.TypeBool:
		var v bool
		if err := row.Scan(&id, &typeID, &propID, &v); err != nil {
			return workspace.Filter{}, err
		}
		value = workspace.BoolValue(v)
	case workspace.TypeInt:
		var v int64
		if err := row.Scan(&id, &typeID, &propID, &v); err != nil {
			return workspace.Filter{}, err
		}
		value = workspace.IntValue(v)
	case workspace.TypeFloat:
		var v float64
		if err := row.Scan(&id, &typeID, &propID, &v); err != nil {
			return workspace.Filter{}, err
		}
		value = workspace.FloatValue(v)
	case workspace.TypeDate:
		var v time.Time
		if err := row.Scan(&id, &typeID, &propID, &v); err != nil {
			return workspace.Filter{}, err
		}
		value = workspace.DateValue(v)
	default:
		return workspace.Filter{}, oops.Code("VALUE_TYPE_INVALID").
			Errorf("%d is not a valid value type", int(vt))
	}

	ft, err := workspace.FilterTypeFromInt(typeID)
	if err != nil {
		return workspace.Filter{}, err
	}
	return workspace.Filter{ID: id, PropID: propID, Type: ft, Value: workspace.NewSingle(value)}, nil
}

// scanRangeFilter scans (id, type_id, prop_id, start, "end") with the bound
// columns typed per relation.
func scanRangeFilter(row pgx.Row, vt workspace.ValueType) (workspace.Filter, error) {
	var (
		id, propID int32
		typeID     int
		start, end workspace.Value
	)
	switch vt {
	case workspace.TypeInt:
		var s, e int64
		if err := row.Scan(&id, &typeID, &propID, &s, &e); err != nil {
			return workspace.Filter{}, err
		}
		start, end = workspace.IntValue(s), workspace.IntValue(e)
	case workspace.TypeFloat:
		var s, e float64
		if err := row.Scan(&id, &typeID, &propID, &s, &e); err != nil {
			return workspace.Filter{}, err
		}
		start, end = workspace.FloatValue(s), workspace.FloatValue(e)
	case workspace.TypeDate:
		var s, e time.Time
		if err := row.Scan(&id, &typeID, &propID, &s, &e); err != nil {
			return workspace.Filter{}, err
		}
		start, end = workspace.DateValue(s), workspace.DateValue(e)
	default:
		return workspace.Filter{}, oops.Code("FILTER_COMBINATION_UNSUPPORTED").
			Wrapf(workspace.ErrUnsupportedCombination, "no range filter relation exists for %s values", vt)
	}

	ft, err := workspace.FilterTypeFromInt(typeID)
	if err != nil {
		return workspace.Filter{}, err
	}
	fv, err := workspace.NewRange(start, end)
	if err != nil {
		return workspace.Filter{}, err
	}
	return workspace.Filter{ID: id, PropID: propID, Type: ft, Value: fv}, nil
}

// defaultFilterValue builds the type-appropriate default for a new filter:
// zero/false/today for singles, [0,10] or [today-10d, today] for ranges.
func defaultFilterValue(ft workspace.FilterType, vt workspace.ValueType) workspace.FilterValue {
	if ft.Shape() == workspace.ShapeSingle {
		switch vt {
		case workspace.TypeBool:
			return workspace.NewSingle(workspace.BoolValue(false))
		case workspace.TypeInt:
			return workspace.NewSingle(workspace.IntValue(0))
		case workspace.TypeFloat:
			return workspace.NewSingle(workspace.FloatValue(0))
		default:
			return workspace.NewSingle(workspace.DateValue(workspace.Today()))
		}
	}
	switch vt {
	case workspace.TypeInt:
		fv, _ := workspace.NewRange(workspace.IntValue(0), workspace.IntValue(10))
		return fv
	case workspace.TypeFloat:
		fv, _ := workspace.NewRange(workspace.FloatValue(0), workspace.FloatValue(10))
		return fv
	default:
		today := workspace.Today()
		fv, _ := workspace.NewRange(
			workspace.DateValue(today.AddDate(0, 0, -10)),
			workspace.DateValue(today),
		)
		return fv
	}
}

// scalarOf unwraps the native scalar for use as a bind parameter.
func scalarOf(v workspace.Value) any {
	switch v.Type() {
	case workspace.TypeBool:
		b, _ := v.Bool()
		return b
	case workspace.TypeInt:
		i, _ := v.Int()
		return i
	case workspace.TypeFloat:
		f, _ := v.Float()
		return f
	case workspace.TypeDate:
		d, _ := v.Date()
		return d
	default:
		return nil
	}
}

// Compile-time interface check.
var _ workspace.FilterRepository = (*FilterRepository)(nil)
