package sqlstore

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/randel-bjorkquist/pluralsight/internal/repository"
)

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func TestNullToString(t *testing.T) {
	tests := []struct {
		name     string
		input    sql.NullString
		expected string
	}{
		{
			name:     "valid string",
			input:    sql.NullString{String: "test", Valid: true},
			expected: "test",
		},
		{
			name:     "invalid string",
			input:    sql.NullString{String: "test", Valid: false},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, tt.expected, nullToString(tt.input))
		})
	}
}

func TestStringToNull(t *testing.T) {
	assertEqual(t, sql.NullString{String: "test", Valid: true}, stringToNull("test"))
	assertEqual(t, sql.NullString{}, stringToNull(""))
}

func TestInClause(t *testing.T) {
	assertEqual(t, "", inClause(0))
	assertEqual(t, "?", inClause(1))
	assertEqual(t, "?, ?, ?", inClause(3))
}

func TestUniqueIDs(t *testing.T) {
	assertEqual(t, []int{3, 1, 2}, uniqueIDs([]int{3, 1, 3, 0, -2, 2, 1}))
	assertEqual(t, []int{}, uniqueIDs(nil))
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements(`
		CREATE TABLE a (id INTEGER);

		CREATE INDEX i ON a(id);
	`)
	assertEqual(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a(id)"}, got)
}

func TestRebind(t *testing.T) {
	query := `UPDATE contacts SET first_name = ?, last_name = ? WHERE id IN (?, ?)`

	assertEqual(t, query, Dialect{Name: "sqlite"}.rebind(query))
	assertEqual(t,
		`UPDATE contacts SET first_name = $1, last_name = $2 WHERE id IN ($3, $4)`,
		Dialect{Name: "postgres", Numbered: true}.rebind(query))
}

func TestTranslate(t *testing.T) {
	driverErr := errors.New("driver failure")
	s := New(nil, Dialect{
		Name: "test",
		Translate: func(op string, err error) error {
			return &repository.StoreError{Op: op, State: "23505", Err: err}
		},
	})

	err := s.translate("contact.create", driverErr)
	var se *repository.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %T", err)
	}
	assertEqual(t, "23505", se.State)

	// already translated errors pass through
	assertEqual(t, err, s.translate("other.op", err))

	plain := New(nil, Dialect{Name: "plain"}).translate("contact.list", driverErr)
	if !errors.As(plain, &se) || se.Op != "contact.list" {
		t.Fatalf("expected StoreError for contact.list, got %v", plain)
	}
	if !errors.Is(plain, driverErr) {
		t.Fatal("expected driver error to be wrapped")
	}

	assertEqual(t, nil, s.translate("x", nil))
}
