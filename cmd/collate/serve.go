// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/collate-app/collate/internal/config"
	"github.com/collate-app/collate/internal/logging"
	"github.com/collate-app/collate/internal/observability"
	"github.com/collate-app/collate/internal/store"
	"github.com/collate-app/collate/internal/workspace"
	wspg "github.com/collate-app/collate/internal/workspace/postgres"
	"github.com/collate-app/collate/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// server wires the storage-backed repositories and the workspace service
// for the lifetime of the process. Frontends (HTTP, RPC) attach to these
// in their own processes; this binary owns the core and its health.
type server struct {
	pool        *pgxpool.Pool
	properties  workspace.PropertyRepository
	propVals    workspace.PropValRepository
	filters     workspace.FilterRepository
	pages       workspace.PageRepository
	collections workspace.CollectionRepository
	service     *workspace.Service
}

func newServer(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) *server {
	properties := wspg.NewPropertyRepository(pool, cfg.Workspace.PropSetMax)
	filters := wspg.NewFilterRepository(pool)
	collections := wspg.NewCollectionRepository(pool)

	return &server{
		pool:        pool,
		properties:  properties,
		propVals:    wspg.NewPropValRepository(pool),
		filters:     filters,
		pages:       wspg.NewPageRepository(pool, filters, properties, collections),
		collections: collections,
		service: workspace.NewService(workspace.ServiceConfig{
			PropertyRepo: properties,
			FilterRepo:   filters,
			Transactor:   wspg.NewTransactor(pool),
			Logger:       logger,
		}),
	}
}

// ready reports whether the backing database is reachable.
func (s *server) ready() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return s.pool.Ping(ctx) == nil
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the workspace server",
		Long: `Start the workspace server: connect to PostgreSQL, expose
metrics and health probes, and serve collection, page, property,
and filter operations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	addDatabaseFlags(cmd.Flags())
	cmd.Flags().String("log.format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("observability.addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().Int("workspace.prop_set_max", config.DefaultPropSetMax, "maximum properties loaded per collection")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault("collate", version, cfg.Log.Format)
	logger := slog.Default()

	logger.Info("starting server",
		"log_format", cfg.Log.Format,
		"metrics_addr", cfg.Observability.Addr,
	)

	pool, err := store.Connect(ctx, store.ConnectConfig{
		URL:         cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		PingRetries: cfg.Database.PingRetries,
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	srv := newServer(pool, cfg, logger)
	logger.Info("workspace core initialized",
		"prop_set_max", cfg.Workspace.PropSetMax,
		"max_conns", cfg.Database.MaxConns,
	)

	var obsErrCh <-chan error
	var obsServer *observability.Server
	if cfg.Observability.Addr != "" {
		obsServer = observability.NewServer(cfg.Observability.Addr, srv.ready)
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
	}

	logger.Info("server ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	}

	if obsServer != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := obsServer.Stop(stopCtx); err != nil {
			errutil.LogError(logger, "failed to stop observability server", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
