// Package sqlstore implements the repository gateways on database/sql.
//
// The SQL is written once with "?" placeholders and rewritten for
// dialects that number their parameters. Backend packages supply the
// dialect, the schema and the driver error translation.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/randel-bjorkquist/pluralsight/internal/metrics"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
)

// DefaultCommandTimeout bounds each statement unless overridden
const DefaultCommandTimeout = 30 * time.Second

// Store implements repository.Store over a *sql.DB
type Store struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics

	contacts  *ContactGateway
	addresses *AddressGateway
	states    *StateGateway
}

// Option configures a Store
type Option func(*Store)

// WithCommandTimeout bounds every statement. Zero disables the bound.
func WithCommandTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogger sets the logger used for statement failures and schema setup
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics records statement outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New wraps an open database
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		timeout: DefaultCommandTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.contacts = &ContactGateway{s: s}
	s.addresses = &AddressGateway{s: s}
	s.states = &StateGateway{s: s}
	return s
}

// BeginTx opens a transaction
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// DB returns the pooled connection for reads outside a transaction
func (s *Store) DB() repository.DB { return s.db }

// SQL returns the underlying *sql.DB
func (s *Store) SQL() *sql.DB { return s.db }

// Dialect returns the store's dialect
func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Contacts() repository.ContactRepository { return s.contacts }
func (s *Store) Addresses() repository.AddressRepository { return s.addresses }
func (s *Store) States() repository.StateRepository { return s.states }

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate runs a schema script statement by statement in one transaction
func (s *Store) Migrate(ctx context.Context, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := splitStatements(script)
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, s.translate("schema.migrate", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	s.log.Debug().Str("dialect", s.dialect.Name).Int("statements", len(stmts)).Msg("schema ready")
	return nil
}

// run executes fn under the command timeout and records its outcome
func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := fn(ctx)
	s.metrics.ObserveStatement(op, err)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Debug().Err(err).Str("op", op).Msg("statement failed")
	}
	return err
}

// q rewrites a query for the dialect
func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// translate wraps a driver error in a *repository.StoreError
func (s *Store) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *repository.StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &repository.StoreError{Op: op, Err: err}
	}
	if s.dialect.Translate != nil {
		if translated := s.dialect.Translate(op, err); errors.As(translated, &se) {
			return translated
		}
	}
	return &repository.StoreError{Op: op, Err: err}
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound
func (s *Store) notFound(op string, id int, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", op, id, repository.ErrNotFound)
	}
	return s.translate(op, err)
}

// execOne runs a write that must touch exactly one row
func (s *Store) execOne(ctx context.Context, db repository.DB, op, query string, args ...any) error {
	res, err := db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return s.translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.translate(op, err)
	}
	if n != 1 {
		return repository.RowCountError(op, 1, n)
	}
	return nil
}

// insertID runs an INSERT ... RETURNING id
func (s *Store) insertID(ctx context.Context, db repository.DB, op, query string, args ...any) (int, error) {
	var id int64
	if err := db.QueryRowContext(ctx, s.q(query), args...).Scan(&id); err != nil {
		return 0, s.translate(op, err)
	}
	return int(id), nil
}
