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

	"github.com/collate-app/collate/internal/workspace"
)

// propvalTables maps a value type to its physical relation. There is no
// generic value column; each relation's value column has the relation's
// native type.
var propvalTables = map[workspace.ValueType]string{
	workspace.TypeBool:  "propval_bool",
	workspace.TypeInt:   "propval_int",
	workspace.TypeFloat: "propval_float",
	workspace.TypeDate:  "propval_date",
}

// PropValRepository implements workspace.PropValRepository using PostgreSQL.
type PropValRepository struct {
	db DB
}

// NewPropValRepository creates a new PropValRepository.
func NewPropValRepository(db DB) *PropValRepository {
	return &PropValRepository{db: db}
}

// Get retrieves the value for (pageID, propID), resolving the value type
// from the property schema first.
func (r *PropValRepository) Get(ctx context.Context, pageID, propID int32) (workspace.PropVal, error) {
	vt, err := r.resolveValueType(ctx, propID)
	if err != nil {
		return workspace.PropVal{}, err
	}
	return r.GetTyped(ctx, pageID, propID, vt)
}

// GetTyped retrieves the value for (pageID, propID) from the relation
// matching the known value type. A missing row is ErrNotFound: the property
// simply has no value yet.
func (r *PropValRepository) GetTyped(ctx context.Context, pageID, propID int32, vt workspace.ValueType) (workspace.PropVal, error) {
	table, ok := propvalTables[vt]
	if !ok {
		return workspace.PropVal{}, oops.Code("VALUE_TYPE_INVALID").With("value_type", int(vt)).
			Errorf("%d is not a valid value type", int(vt))
	}

	row := r.db.QueryRow(ctx,
		`SELECT value FROM `+table+` WHERE page_id = $1 AND prop_id = $2`,
		pageID, propID)

	value, err := scanValue(row, vt)
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.PropVal{}, oops.Code("PROPVAL_NOT_FOUND").
			With("page_id", pageID).
			With("prop_id", propID).
			Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return workspace.PropVal{}, oops.Code("PROPVAL_GET_FAILED").
			With("page_id", pageID).
			With("prop_id", propID).
			Wrap(err)
	}

	return workspace.PropVal{PageID: pageID, PropID: propID, Value: value}, nil
}

// List returns all property values for the given pages. The four typed
// relations are queried concurrently; the caller suspends until all
// sub-queries complete, so latency is bounded by the slowest single query.
func (r *PropValRepository) List(ctx context.Context, pageIDs []int32) ([]workspace.PropVal, error) {
	types := workspace.ValueTypes()
	results := make([][]workspace.PropVal, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, vt := range types {
		g.Go(func() error {
			pvs, err := r.listTyped(gctx, pageIDs, vt)
			if err != nil {
				return err
			}
			results[i] = pvs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, pvs := range results {
		total += len(pvs)
	}
	all := make([]workspace.PropVal, 0, total)
	for _, pvs := range results {
		all = append(all, pvs...)
	}
	return all, nil
}

// Save upserts the value keyed on (page_id, prop_id). The conflict clause
// makes the write atomic; a read-then-write would race between concurrent
// editors of the same page.
func (r *PropValRepository) Save(ctx context.Context, pv workspace.PropVal) error {
	table := propvalTables[pv.Value.Type()]

	var arg any
	switch pv.Value.Type() {
	case workspace.TypeBool:
		arg, _ = pv.Value.Bool()
	case workspace.TypeInt:
		arg, _ = pv.Value.Int()
	case workspace.TypeFloat:
		arg, _ = pv.Value.Float()
	case workspace.TypeDate:
		arg, _ = pv.Value.Date()
	default:
		return oops.Code("VALUE_TYPE_INVALID").With("value_type", int(pv.Value.Type())).
			Errorf("%d is not a valid value type", int(pv.Value.Type()))
	}

	_, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`INSERT INTO `+table+` (value, page_id, prop_id) VALUES ($1, $2, $3)
		 ON CONFLICT (page_id, prop_id) DO UPDATE SET value = $1`,
		arg, pv.PageID, pv.PropID)
	if err != nil {
		return oops.Code("PROPVAL_SAVE_FAILED").
			With("page_id", pv.PageID).
			With("prop_id", pv.PropID).
			With("value_type", pv.Value.Type().String()).
			Wrap(err)
	}
	return nil
}

// resolveValueType looks up the property's declared type.
func (r *PropValRepository) resolveValueType(ctx context.Context, propID int32) (workspace.ValueType, error) {
	var code int
	err := r.db.QueryRow(ctx, `SELECT type_id FROM property WHERE id = $1`, propID).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("PROP_NOT_FOUND").With("prop_id", propID).Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("PROP_GET_FAILED").With("prop_id", propID).Wrap(err)
	}
	vt, err := workspace.ValueTypeFromInt(code)
	if err != nil {
		return 0, oops.With("prop_id", propID).Wrap(err)
	}
	return vt, nil
}

func (r *PropValRepository) listTyped(ctx context.Context, pageIDs []int32, vt workspace.ValueType) ([]workspace.PropVal, error) {
	table := propvalTables[vt]
	rows, err := r.db.Query(ctx,
		`SELECT page_id, prop_id, value FROM `+table+` WHERE page_id = ANY($1)`,
		pageIDs)
	if err != nil {
		return nil, oops.Code("PROPVAL_QUERY_FAILED").With("value_type", vt.String()).Wrap(err)
	}
	defer rows.Close()

	pvs := make([]workspace.PropVal, 0)
	for rows.Next() {
		var pageID, propID int32
		value, err := scanRowValue(rows, &pageID, &propID, vt)
		if err != nil {
			return nil, oops.Code("PROPVAL_SCAN_FAILED").With("value_type", vt.String()).Wrap(err)
		}
		pvs = append(pvs, workspace.PropVal{PageID: pageID, PropID: propID, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROPVAL_ITERATE_FAILED").With("value_type", vt.String()).Wrap(err)
	}
	return pvs, nil
}

// scanValue scans a single typed value column.
func scanValue(row pgx.Row, vt workspace.ValueType) (workspace.Value, error) {
	switch vt {
	case workspace.TypeBool:
		var v bool
		if err := row.Scan(&v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.BoolValue(v), nil
	case workspace.TypeInt:
		var v int64
		if err := row.Scan(&v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.IntValue(v), nil
	case workspace.TypeFloat:
		var v float64
		if err := row.Scan(&v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.FloatValue(v), nil
	case workspace.TypeDate:
		var v time.Time
		if err := row.Scan(&v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.DateValue(v), nil
	default:
		return workspace.Value{}, oops.Code("VALUE_TYPE_INVALID").
			Errorf("%d is not a valid value type", int(vt))
	}
}

// scanRowValue scans (page_id, prop_id, value) with the value column typed
// per relation.
func scanRowValue(rows pgx.Rows, pageID, propID *int32, vt workspace.ValueType) (workspace.Value, error) {
	switch vt {
	case workspace.TypeBool:
		var v bool
		if err := rows.Scan(pageID, propID, &v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.BoolValue(v), nil
	case workspace.TypeInt:
		var v int64
		if err := rows.Scan(pageID, propID, &v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.IntValue(v), nil
	case workspace.TypeFloat:
		var v float64
		if err := rows.Scan(pageID, propID, &v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.FloatValue(v), nil
	case workspace.TypeDate:
		var v time.Time
		if err := rows.Scan(pageID, propID, &v); err != nil {
			return workspace.Value{}, err
		}
		return workspace.DateValue(v), nil
	default:
		return workspace.Value{}, oops.Code("VALUE_TYPE_INVALID").
			Errorf("%d is not a valid value type", int(vt))
	}
}

// Compile-time interface check.
var _ workspace.PropValRepository = (*PropValRepository)(nil)
