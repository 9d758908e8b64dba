package repository

import (
	"context"
	"database/sql"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
)

// DB is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is an open transaction
type Tx interface {
	DB
	Commit() error
	Rollback() error
}

// Transactor opens transactions
type Transactor interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// Gateway persists a single entity type
type Gateway[E any] interface {
	// Create inserts e and assigns its id
	Create(ctx context.Context, db DB, e E) error
	// Update rewrites e; ErrRowCount when not exactly one row changed
	Update(ctx context.Context, db DB, e E) error
	// Delete removes the row; true iff exactly one row was removed
	Delete(ctx context.Context, db DB, id int) (bool, error)
	// GetByID loads one row; ErrNotFound when absent
	GetByID(ctx context.Context, db DB, id int) (E, error)
}

// BatchDeleter removes many child rows of one parent in one statement.
// Rows owned by another parent are left alone and not counted.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, db DB, parentID int, ids []int) (int, error)
}

// ContactRepository adds the contact queries to the gateway
type ContactRepository interface {
	Gateway[*domain.Contact]
	List(ctx context.Context, db DB) ([]*domain.Contact, error)
	ListByIDs(ctx context.Context, db DB, ids []int) ([]*domain.Contact, error)
	BulkCreate(ctx context.Context, db DB, contacts []*domain.Contact) (int, error)
}

// AddressRepository adds the address queries to the gateway
type AddressRepository interface {
	Gateway[*domain.Address]
	BatchDeleter
	ListByContacts(ctx context.Context, db DB, contactIDs []int) ([]*domain.Address, error)
	ListByState(ctx context.Context, db DB, stateID int) ([]*domain.Address, error)
	List(ctx context.Context, db DB) ([]*domain.Address, error)
}

// StateRepository reads the state lookup table
type StateRepository interface {
	List(ctx context.Context, db DB) ([]domain.State, error)
	GetByID(ctx context.Context, db DB, id int) (domain.State, error)
	Seed(ctx context.Context, db DB, states []domain.State) (int, error)
}

// Store bundles the repositories of one database
type Store interface {
	Transactor
	DB() DB
	Contacts() ContactRepository
	Addresses() AddressRepository
	States() StateRepository
	Close() error
}
