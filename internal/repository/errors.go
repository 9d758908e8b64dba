package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("not found")

	// ErrRowCount is returned when a write touched an unexpected number of rows
	ErrRowCount = errors.New("unexpected number of rows affected")
)

// StoreError describes a failed database statement
type StoreError struct {
	Op    string // statement name, e.g. "contact.update"
	Code  int    // driver return code, 0 when the driver has none
	State string // SQLSTATE, "" when the driver has none
	Err   error
}

func (e *StoreError) Error() string {
	switch {
	case e.State != "":
		return fmt.Sprintf("%s failed (sqlstate %s): %v", e.Op, e.State, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("%s returned error code %d: %v", e.Op, e.Code, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsConstraint reports whether the failure was an integrity violation
func (e *StoreError) IsConstraint() bool {
	// sqlite reports the primary code 19 (SQLITE_CONSTRAINT) in the low byte
	// of its extended codes; SQLSTATE class 23 is integrity constraint violation.
	return e.Code&0xff == 19 || (len(e.State) == 5 && e.State[:2] == "23")
}

// RowCountError builds an ErrRowCount for op
func RowCountError(op string, want, got int64) error {
	return fmt.Errorf("%s: %w: want %d, got %d", op, ErrRowCount, want, got)
}
