// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/collate-app/collate/internal/workspace"
)

// PropertyRepository implements workspace.PropertyRepository using
// PostgreSQL.
type PropertyRepository struct {
	db       DB
	maxProps int
}

// NewPropertyRepository creates a new PropertyRepository. maxProps bounds the
// number of properties read per collection; a collection exceeding it is a
// data-integrity error rather than something to page through.
func NewPropertyRepository(db DB, maxProps int) *PropertyRepository {
	return &PropertyRepository{db: db, maxProps: maxProps}
}

// Get retrieves a property by id.
func (r *PropertyRepository) Get(ctx context.Context, id int32) (workspace.Prop, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, type_id, collection_id, name, ordinal FROM property WHERE id = $1`, id)

	prop, err := scanProp(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.Prop{}, oops.Code("PROP_NOT_FOUND").With("prop_id", id).Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return workspace.Prop{}, oops.Code("PROP_GET_FAILED").With("prop_id", id).Wrap(err)
	}
	return prop, nil
}

// ListByCollection returns the collection's properties sorted by ordinal.
func (r *PropertyRepository) ListByCollection(ctx context.Context, collectionID int32) ([]workspace.Prop, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, type_id, collection_id, name, ordinal FROM property
		 WHERE collection_id = $1 ORDER BY ordinal`, collectionID)
	if err != nil {
		return nil, oops.Code("PROP_QUERY_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	defer rows.Close()

	props, err := r.scanProps(rows, collectionID)
	if err != nil {
		return nil, err
	}
	return props, nil
}

// ListByOrdinals returns the collection's properties holding any of the given
// ordinals, used to find a property's immediate neighbor during reorders.
func (r *PropertyRepository) ListByOrdinals(ctx context.Context, collectionID int32, ordinals []int16) ([]workspace.Prop, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, type_id, collection_id, name, ordinal FROM property
		 WHERE collection_id = $1 AND ordinal = ANY($2) ORDER BY ordinal`,
		collectionID, ordinals)
	if err != nil {
		return nil, oops.Code("PROP_QUERY_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	defer rows.Close()

	return r.scanProps(rows, collectionID)
}

// Create persists a new property and fills in its assigned id.
func (r *PropertyRepository) Create(ctx context.Context, p *workspace.Prop) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO property (type_id, collection_id, name, ordinal)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Type.Int(), p.CollectionID, p.Name, p.Ordinal).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PROP_DUPLICATE_NAME").
				With("collection_id", p.CollectionID).
				With("name", p.Name).
				Wrapf(err, "property %q already exists in collection %d", p.Name, p.CollectionID)
		}
		return oops.Code("PROP_CREATE_FAILED").With("collection_id", p.CollectionID).Wrap(err)
	}
	return nil
}

// Save updates a property's name and ordinal. Routed through the context's
// transaction when present so ordinal swaps commit atomically.
func (r *PropertyRepository) Save(ctx context.Context, p workspace.Prop) error {
	res, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE property SET name = $1, ordinal = $2 WHERE id = $3`,
		p.Name, p.Ordinal, p.ID)
	if err != nil {
		return oops.Code("PROP_SAVE_FAILED").With("prop_id", p.ID).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("PROP_NOT_FOUND").With("prop_id", p.ID).Wrap(workspace.ErrNotFound)
	}
	return nil
}

// Delete removes a property. Its propval and filter rows cascade via the
// schema's foreign keys.
func (r *PropertyRepository) Delete(ctx context.Context, id int32) error {
	res, err := execerFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM property WHERE id = $1`, id)
	if err != nil {
		return oops.Code("PROP_DELETE_FAILED").With("prop_id", id).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("PROP_NOT_FOUND").With("prop_id", id).Wrap(workspace.ErrNotFound)
	}
	return nil
}

func (r *PropertyRepository) scanProps(rows pgx.Rows, collectionID int32) ([]workspace.Prop, error) {
	props := make([]workspace.Prop, 0)
	for rows.Next() {
		prop, err := scanProp(rows)
		if err != nil {
			return nil, oops.Code("PROP_SCAN_FAILED").With("collection_id", collectionID).Wrap(err)
		}
		props = append(props, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROP_ITERATE_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	if len(props) > r.maxProps {
		return nil, oops.Code("PROP_SET_OVERFLOW").
			With("collection_id", collectionID).
			With("count", len(props)).
			With("max", r.maxProps).
			Errorf("collection %d has too many properties", collectionID)
	}
	return props, nil
}

func scanProp(row pgx.Row) (workspace.Prop, error) {
	var (
		prop   workspace.Prop
		typeID int
	)
	if err := row.Scan(&prop.ID, &typeID, &prop.CollectionID, &prop.Name, &prop.Ordinal); err != nil {
		return workspace.Prop{}, err
	}
	vt, err := workspace.ValueTypeFromInt(typeID)
	if err != nil {
		return workspace.Prop{}, err
	}
	prop.Type = vt
	return prop, nil
}

// Compile-time interface check.
var _ workspace.PropertyRepository = (*PropertyRepository)(nil)
