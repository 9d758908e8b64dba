// Package service implements the contact use cases on top of the
// repository layer.
//
// # Aggregate saves
//
// AggregateSaver persists a parent entity together with its children in a
// single transaction. Each record is classified as new, existing or deleted
// and the saver issues the matching gateway calls:
//
//   - a deleted parent is removed and its children are ignored
//   - a new parent is created, an existing one updated
//   - children get the parent's id, deleted children are removed in one
//     batch, then the rest are created or updated in order
//
// Validation runs before the transaction is opened. Any gateway failure or
// context cancellation rolls the whole save back.
//
// # Contacts
//
// ContactService wraps the contact, address and state repositories and the
// saver. Every operation returns a result.Of value instead of an error;
// missing rows become NotFound failures and store errors become Error
// failures. Committed changes are published on the EventBus.
package service
