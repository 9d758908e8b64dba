// Package repository defines the data access boundary for the contact book.
//
// This package provides the gateway abstraction used by the service layer
// and the aggregate saver. Implementations live in subpackages.
//
// # Gateways
//
// Gateway[E] is the per-entity contract: Create assigns the new id, Update
// and Delete report row counts, GetByID returns ErrNotFound on absence.
// Every call receives the DB to run against, which is either the pooled
// connection or an open transaction.
//
// # Transactions
//
// Transactor opens a Tx. Callers that span several gateway calls pass the
// same Tx to each of them and commit or roll back once at the end.
//
// # Implementations
//
// The sqlstore package holds the SQL shared by both backends. The sqlite
// package opens an embedded database with WAL mode and creates its schema
// on startup; the postgres package does the same for a server database.
//
// # Testing
//
// The sqlite store is tested with in-memory databases.
package repository
