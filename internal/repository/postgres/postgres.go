// Package postgres opens the contact store on a PostgreSQL server through
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/randel-bjorkquist/pluralsight/internal/config"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/sqlstore"
)

// DriverName is the database/sql driver registered by pgx
const DriverName = "pgx"

const schema = `
	CREATE TABLE IF NOT EXISTS states (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		abbreviation TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		company TEXT,
		title TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		address_type TEXT NOT NULL,
		street_address TEXT NOT NULL,
		city TEXT NOT NULL,
		state_id INTEGER NOT NULL REFERENCES states(id),
		postal_code TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_addresses_contact ON addresses(contact_id);
	CREATE INDEX IF NOT EXISTS idx_addresses_state ON addresses(state_id);
`

// Config describes the connection pool
type Config struct {
	DSN             string
	PingTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFrom derives pool settings from the database config
func ConfigFrom(db config.DatabaseConfig) (Config, error) {
	dsn, err := db.DSN()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DSN:             dsn,
		PingTimeout:     db.PingTimeout.Duration(),
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	return cfg, cfg.Validate()
}

// Validate checks the pool settings
func (c Config) Validate() error {
	if c.DSN == "" {
		return errors.New("postgres DSN is required")
	}
	if c.PingTimeout <= 0 {
		return errors.New("ping timeout must be positive")
	}
	if c.MaxOpenConns < 1 {
		return errors.New("max open conns must be >= 1")
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max idle conns must be between 0 and max open conns")
	}
	if c.ConnMaxLifetime < 0 {
		return errors.New("conn max lifetime must be >= 0")
	}
	return nil
}

// Dialect returns the PostgreSQL dialect
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{Name: "postgres", Numbered: true, Translate: translate}
}

// Open connects, pings and creates the schema
func Open(ctx context.Context, cfg Config, opts ...sqlstore.Option) (*sqlstore.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := sqlstore.New(db, Dialect(), opts...)
	if err := store.Migrate(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// translate keeps the SQLSTATE of a failed statement
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &repository.StoreError{Op: op, State: pgErr.Code, Err: err}
	}
	return err
}
