// Package domain defines the contact book entities.
//
// # Core Types
//
// Contact is the aggregate root. It owns an ordered list of Address
// children, each pointing back to its contact through ContactID.
//
// State is a read-only lookup table referenced by addresses.
//
// # Lifecycle
//
// Entities embed Entity (identity) and, when they can be removed, SoftDelete
// (a deletion request flag). Classify derives the persistence action:
//
//   - Deleted when the flag is set
//   - New when the ID is zero or negative
//   - Existing otherwise
//
// # Validation
//
// Every entity implements validation.Validatable. Identity and deletion
// rules are shared; field rules live next to each entity.
//
// # Design Principles
//
// - No database or external dependencies
// - Validation appends messages instead of returning on the first problem
package domain
