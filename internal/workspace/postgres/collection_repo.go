// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/collate-app/collate/internal/workspace"
)

// CollectionRepository implements workspace.CollectionRepository using
// PostgreSQL.
type CollectionRepository struct {
	db DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// GetName returns the collection's display name.
func (r *CollectionRepository) GetName(ctx context.Context, id int32) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM collection WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", oops.Code("COLLECTION_NOT_FOUND").With("collection_id", id).Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return "", oops.Code("COLLECTION_GET_FAILED").With("collection_id", id).Wrap(err)
	}
	return name, nil
}

// GetSort returns the collection's listing sort. A collection with no sort
// configured reports ErrNotFound; callers list unsorted in that case.
func (r *CollectionRepository) GetSort(ctx context.Context, collectionID int32) (workspace.CollectionSort, error) {
	var (
		propID *int32
		typeID *int
	)
	err := r.db.QueryRow(ctx,
		`SELECT sort_by_prop_id, sort_type_id FROM collection WHERE id = $1`,
		collectionID).Scan(&propID, &typeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.CollectionSort{}, oops.Code("COLLECTION_NOT_FOUND").
			With("collection_id", collectionID).
			Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return workspace.CollectionSort{}, oops.Code("SORT_GET_FAILED").
			With("collection_id", collectionID).
			Wrap(err)
	}
	if propID == nil || typeID == nil {
		return workspace.CollectionSort{}, oops.Code("SORT_NOT_CONFIGURED").
			With("collection_id", collectionID).
			Wrap(workspace.ErrNotFound)
	}

	st, err := workspace.SortTypeFromInt(*typeID)
	if err != nil {
		return workspace.CollectionSort{}, oops.With("collection_id", collectionID).Wrap(err)
	}

	return workspace.CollectionSort{
		CollectionID: collectionID,
		PropID:       propID,
		Sort:         &st,
	}, nil
}

// SaveSort updates the collection's listing sort. Nil fields disable
// sorting.
func (r *CollectionRepository) SaveSort(ctx context.Context, s workspace.CollectionSort) error {
	var typeID *int
	if s.Sort != nil {
		code := s.Sort.Int()
		typeID = &code
	}

	res, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE collection SET sort_by_prop_id = $1, sort_type_id = $2 WHERE id = $3`,
		s.PropID, typeID, s.CollectionID)
	if err != nil {
		return oops.Code("SORT_SAVE_FAILED").With("collection_id", s.CollectionID).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("COLLECTION_NOT_FOUND").
			With("collection_id", s.CollectionID).
			Wrap(workspace.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ workspace.CollectionRepository = (*CollectionRepository)(nil)
