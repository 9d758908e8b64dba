// Package sqlite opens the contact store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"

	"github.com/randel-bjorkquist/pluralsight/internal/config"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/sqlstore"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

const schema = `
	CREATE TABLE IF NOT EXISTS states (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		abbreviation TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		company TEXT,
		title TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		address_type TEXT NOT NULL,
		street_address TEXT NOT NULL,
		city TEXT NOT NULL,
		state_id INTEGER NOT NULL,
		postal_code TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE,
		FOREIGN KEY (state_id) REFERENCES states(id)
	);

	CREATE INDEX IF NOT EXISTS idx_addresses_contact ON addresses(contact_id);
	CREATE INDEX IF NOT EXISTS idx_addresses_state ON addresses(state_id);
`

// Dialect returns the SQLite dialect
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{Name: "sqlite", Translate: translate}
}

// New opens the database file at path (or config.MemoryPath) with the
// standard pragmas and creates the schema.
func New(ctx context.Context, path string, opts ...sqlstore.Option) (*sqlstore.Store, error) {
	return Open(ctx, config.SQLiteDSN(path), opts...)
}

// Open opens a database from a complete DSN and creates the schema
func Open(ctx context.Context, dsn string, opts ...sqlstore.Option) (*sqlstore.Store, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every new connection to :memory: is a new, empty database.
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	store := sqlstore.New(db, Dialect(), opts...)
	if err := store.Migrate(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, config.MemoryPath) || strings.Contains(dsn, "mode=memory")
}

// translate keeps the SQLite result code of a failed statement
func translate(op string, err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return &repository.StoreError{Op: op, Code: se.Code(), Err: err}
	}
	return err
}
