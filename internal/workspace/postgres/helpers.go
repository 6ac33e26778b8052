// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

// Package postgres implements the workspace repositories against the
// type-segregated PostgreSQL relations: four propval relations, seven filter
// relations, and the property schema table.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx connection pool so repositories work against both
// *pgxpool.Pool and pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// execer is the subset of DB that transaction-aware writes need.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// txKey is the context key for an active transaction.
type txKey struct{}

// execerFromCtx returns the active transaction from the context when one
// exists, otherwise the given fallback. Write methods route through this so
// they participate in a surrounding Transactor.InTransaction call.
func execerFromCtx(ctx context.Context, fallback execer) execer {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}
