// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/collate-app/collate/internal/store"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database connectivity and migration status",
		RunE:  runStatus,
	}

	addDatabaseFlags(cmd.Flags())

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	pool, err := store.Connect(cmd.Context(), store.ConnectConfig{
		URL:         cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		PingRetries: 0,
	})
	if err != nil {
		cmd.Println("Database: unreachable")
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()
	cmd.Println("Database: ok")

	m, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "status").Wrap(err)
	}
	defer m.Close() //nolint:errcheck

	version, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "version").Wrap(err)
	}
	if version == 0 && !dirty {
		cmd.Println("Migrations: none applied")
		return nil
	}
	cmd.Printf("Migrations: version %d (dirty: %t)\n", version, dirty)
	return nil
}
