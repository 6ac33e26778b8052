// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collate-app/collate/internal/workspace"
)

func TestCollectionRepository_GetName(t *testing.T) {
	t.Run("existing collection", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT name FROM collection WHERE id = \$1`).
			WithArgs(int32(9)).
			WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Reading list"))

		repo := NewCollectionRepository(mock)
		name, err := repo.GetName(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, "Reading list", name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing collection", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT name FROM collection WHERE id = \$1`).
			WithArgs(int32(99)).
			WillReturnError(pgx.ErrNoRows)

		repo := NewCollectionRepository(mock)
		_, err = repo.GetName(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, workspace.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionRepository_GetSort(t *testing.T) {
	t.Run("configured sort", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		propID := int32(2)
		typeID := workspace.SortDesc.Int()
		mock.ExpectQuery(`SELECT sort_by_prop_id, sort_type_id FROM collection WHERE id = \$1`).
			WithArgs(int32(9)).
			WillReturnRows(pgxmock.NewRows([]string{"sort_by_prop_id", "sort_type_id"}).
				AddRow(&propID, &typeID))

		repo := NewCollectionRepository(mock)
		sort, err := repo.GetSort(context.Background(), 9)
		require.NoError(t, err)

		require.NotNil(t, sort.PropID)
		assert.Equal(t, int32(2), *sort.PropID)
		require.NotNil(t, sort.Sort)
		assert.Equal(t, workspace.SortDesc, *sort.Sort)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sort not configured", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT sort_by_prop_id, sort_type_id FROM collection WHERE id = \$1`).
			WithArgs(int32(9)).
			WillReturnRows(pgxmock.NewRows([]string{"sort_by_prop_id", "sort_type_id"}).
				AddRow(nil, nil))

		repo := NewCollectionRepository(mock)
		_, err = repo.GetSort(context.Background(), 9)
		require.Error(t, err)
		assert.ErrorIs(t, err, workspace.ErrNotFound)
		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok)
		assert.Equal(t, "SORT_NOT_CONFIGURED", oopsErr.Code())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing collection", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT sort_by_prop_id, sort_type_id FROM collection WHERE id = \$1`).
			WithArgs(int32(99)).
			WillReturnError(pgx.ErrNoRows)

		repo := NewCollectionRepository(mock)
		_, err = repo.GetSort(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, workspace.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionRepository_SaveSort(t *testing.T) {
	t.Run("enables sorting", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		propID := int32(2)
		sort := workspace.SortAsc
		typeID := sort.Int()
		mock.ExpectExec(`UPDATE collection SET sort_by_prop_id = \$1, sort_type_id = \$2 WHERE id = \$3`).
			WithArgs(&propID, &typeID, int32(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewCollectionRepository(mock)
		err = repo.SaveSort(context.Background(), workspace.CollectionSort{
			CollectionID: 9, PropID: &propID, Sort: &sort,
		})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disables sorting with nil fields", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE collection SET sort_by_prop_id = \$1, sort_type_id = \$2 WHERE id = \$3`).
			WithArgs((*int32)(nil), (*int)(nil), int32(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewCollectionRepository(mock)
		err = repo.SaveSort(context.Background(), workspace.CollectionSort{CollectionID: 9})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing collection", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE collection SET sort_by_prop_id = \$1, sort_type_id = \$2 WHERE id = \$3`).
			WithArgs((*int32)(nil), (*int)(nil), int32(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewCollectionRepository(mock)
		err = repo.SaveSort(context.Background(), workspace.CollectionSort{CollectionID: 99})
		require.Error(t, err)
		assert.ErrorIs(t, err, workspace.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
