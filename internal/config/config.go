// Package config provides configuration management for the contact store.
//
// Values are layered: defaults, then the YAML config file, then
// PLURALSIGHT_* environment variables.
//
// Config file locations (priority order):
//  1. $PLURALSIGHT_CONFIG
//  2. ./contacts.yaml
//  3. $XDG_CONFIG_HOME/pluralsight/config.yaml
//  4. ~/.config/pluralsight/config.yaml
//  5. /etc/pluralsight/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PLURALSIGHT_"

const (
	defaultSQLitePath     = "./contacts.db"
	defaultCommandTimeout = 30 * time.Second
	defaultPingTimeout    = 2 * time.Second
	defaultPostgresPort   = 5432
	defaultMaxOpenConns   = 10
)

// Load finds and loads the config file, or starts from defaults if none
// is found. Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		cfg.applyDefaults()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:  1,
		Database: DatabaseConfig{Driver: DriverSQLite, Path: defaultSQLitePath},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	db := &c.Database
	db.Driver = ParseDriver(string(db.Driver))
	if db.Driver == DriverSQLite && db.Path == "" {
		db.Path = defaultSQLitePath
	}
	if db.Driver == DriverPostgres && db.Port == 0 {
		db.Port = defaultPostgresPort
	}
	if db.Encrypt == nil {
		encrypt := true
		db.Encrypt = &encrypt
	}
	if db.CommandTimeout <= 0 {
		db.CommandTimeout = Duration(defaultCommandTimeout)
	}
	if db.PingTimeout <= 0 {
		db.PingTimeout = Duration(defaultPingTimeout)
	}
	if db.MaxOpenConns <= 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format != "json" {
		c.Log.Format = "console"
	}
}

// Summary returns a human-readable config summary without secrets
func (c *Config) Summary() string {
	db := c.Database
	target := db.Path
	if db.Driver == DriverPostgres {
		target = fmt.Sprintf("%s:%d/%s", db.Host, db.Port, db.Name)
		if db.URL != "" {
			target = "url"
		}
	}
	return fmt.Sprintf("Database: %s (%s), command timeout %s\nLog: %s/%s",
		db.Driver, target, db.CommandTimeout.Duration(), c.Log.Level, c.Log.Format)
}
