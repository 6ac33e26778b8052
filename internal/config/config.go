// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

// Package config loads and validates server configuration from a YAML
// file and command-line flags, in increasing order of precedence.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all server configuration.
type Config struct {
	Database      Database      `koanf:"database"`
	Log           Log           `koanf:"log"`
	Observability Observability `koanf:"observability"`
	Workspace     Workspace     `koanf:"workspace"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	URL         string `koanf:"url"`
	MaxConns    int32  `koanf:"max_conns"`
	PingRetries uint64 `koanf:"ping_retries"`
}

// Log holds structured logging settings.
type Log struct {
	Format string `koanf:"format"`
}

// Observability holds settings for the metrics/health HTTP server.
type Observability struct {
	Addr string `koanf:"addr"`
}

// Workspace holds domain-level limits.
type Workspace struct {
	// PropSetMax caps the number of properties loaded per collection.
	PropSetMax int `koanf:"prop_set_max"`
}

// Default configuration values.
const (
	DefaultMaxConns    = 8
	DefaultPingRetries = 5
	DefaultLogFormat   = "json"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultPropSetMax  = 5000
)

// Defaults returns a Config populated with default values.
func Defaults() Config {
	return Config{
		Database: Database{
			MaxConns:    DefaultMaxConns,
			PingRetries: DefaultPingRetries,
		},
		Log: Log{
			Format: DefaultLogFormat,
		},
		Observability: Observability{
			Addr: DefaultMetricsAddr,
		},
		Workspace: Workspace{
			PropSetMax: DefaultPropSetMax,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and an
// optional flag set. Flags override file values, which override defaults.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.
				Code("CONFIG_FILE_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (or set DATABASE_URL)")
	}
	if c.Database.MaxConns <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("max_conns", c.Database.MaxConns).
			Errorf("database.max_conns must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	if c.Workspace.PropSetMax <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("prop_set_max", c.Workspace.PropSetMax).
			Errorf("workspace.prop_set_max must be positive")
	}
	return nil
}
