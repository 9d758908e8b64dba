package domain

import (
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

// Message codes reported by the shared entity rules
const (
	CodeInvalidID       = "INVALID_ID"
	CodeDeletedOnCreate = "DELETED_ON_CREATE"
	CodeRequired        = "REQUIRED"
	CodeTooLong         = "TOO_LONG"
	CodeInvalidFormat   = "INVALID_FORMAT"
)

const (
	msgIDRequired      = "Id must be greater than 0 (zero) when updating or deleting."
	msgDeletedOnCreate = "Deleted: new entities cannot have Deleted = true unless explicitly allowed (e.g., for imports)."
)

// Lifecycle is the persistence action derived from an entity's state
type Lifecycle string

const (
	LifecycleNew      Lifecycle = "new"
	LifecycleExisting Lifecycle = "existing"
	LifecycleDeleted  Lifecycle = "deleted"
)

// Record is an entity the aggregate saver can persist
type Record interface {
	validation.Validatable
	GetID() int
	SetID(id int)
	IsDeleted() bool
}

// DeletionValidator is implemented by records that carry a deletion flag
type DeletionValidator interface {
	ValidateDeletion(isCreate, allowDeletedOnCreate bool, messages *result.MessageCollection) *result.MessageCollection
}

// Classify returns the lifecycle of r. The deletion flag wins over the ID.
func Classify(r Record) Lifecycle {
	switch {
	case r.IsDeleted():
		return LifecycleDeleted
	case r.GetID() <= 0:
		return LifecycleNew
	default:
		return LifecycleExisting
	}
}

// Entity carries the identity shared by all persisted types
type Entity struct {
	ID int `json:"id" yaml:"id"`
}

// GetID returns the entity id
func (e *Entity) GetID() int { return e.ID }

// SetID assigns the entity id, normally after an insert
func (e *Entity) SetID(id int) { e.ID = id }

// IsNew reports whether the entity has not been stored yet
func (e *Entity) IsNew() bool { return e.ID <= 0 }

// Validate reports a missing id on update or delete
func (e Entity) Validate(isCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	messages = validation.Ensure(messages)
	if !isCreate && e.ID <= 0 {
		messages.AddError(msgIDRequired, result.WithCode(CodeInvalidID))
	}
	return messages
}

// SoftDelete is a deletion request. It is never stored; a set flag makes
// the next save remove the row.
type SoftDelete struct {
	Deleted bool `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// IsDeleted reports whether deletion was requested
func (d *SoftDelete) IsDeleted() bool { return d.Deleted }

// MarkDeleted requests deletion on the next save
func (d *SoftDelete) MarkDeleted() { d.Deleted = true }

// ValidateDeletion rejects new entities that are already flagged deleted
// unless allowDeletedOnCreate is set.
func (d SoftDelete) ValidateDeletion(isCreate, allowDeletedOnCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	messages = validation.Ensure(messages)
	if isCreate && d.Deleted && !allowDeletedOnCreate {
		messages.AddError(msgDeletedOnCreate, result.WithCode(CodeDeletedOnCreate))
	}
	return messages
}
