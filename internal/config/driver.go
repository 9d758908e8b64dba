package config

// Driver selects the database backend
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ParseDriver converts a string to Driver, defaulting to DriverSQLite
func ParseDriver(s string) Driver {
	switch s {
	case "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pgx":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// Valid reports whether d names a supported backend
func (d Driver) Valid() bool {
	return d == DriverSQLite || d == DriverPostgres
}
