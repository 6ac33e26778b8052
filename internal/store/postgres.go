// Package store provides the PostgreSQL connection pool and schema
// migrations backing the workspace repositories.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// ConnectConfig controls pool construction.
type ConnectConfig struct {
	// URL is the PostgreSQL connection string.
	URL string
	// MaxConns bounds the pool size. Zero keeps the pgxpool default.
	MaxConns int32
	// PingRetries bounds the startup ping attempts. Zero means a single
	// attempt.
	PingRetries uint64
}

// Connect builds a connection pool and verifies it with a ping, retrying
// with capped exponential backoff so the process survives a database that is
// still starting up. Past startup, timeout and cancellation behavior is the
// pool's default; the core defines no retry policy of its own.
func Connect(ctx context.Context, cfg ConnectConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	backoff := retry.WithMaxRetries(cfg.PingRetries,
		retry.WithCappedDuration(5*time.Second, retry.NewExponential(250*time.Millisecond)))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_PING_FAILED").With("retries", cfg.PingRetries).Wrap(err)
	}

	return pool, nil
}
