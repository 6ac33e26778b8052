// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/collate-app/collate/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Collate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collate",
		Short: "Collate - a workspace of pages with typed properties",
		Long: `Collate is a workspace server where pages live in collections,
carry typed properties, and can be filtered and sorted by them.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// addDatabaseFlags registers the database flags shared by subcommands.
func addDatabaseFlags(flags *pflag.FlagSet) {
	flags.String("database.url", "", "PostgreSQL connection URL (default: DATABASE_URL)")
	flags.Int32("database.max_conns", config.DefaultMaxConns, "maximum pool connections")
	flags.Uint64("database.ping_retries", config.DefaultPingRetries, "connection ping retry attempts")
}

// loadConfig resolves configuration from the config file and the command's
// flags, falling back to DATABASE_URL for the database URL.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	if !flags.Changed("database.url") {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			if err := flags.Set("database.url", url); err != nil {
				return config.Config{}, err //nolint:wrapcheck
			}
		}
	}
	return config.Load(configFile, flags)
}
