package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// MemoryPath selects a private in-memory SQLite database
const MemoryPath = ":memory:"

var (
	// ErrIntegratedWithCredentials is returned when integrated security is
	// combined with a user name or password.
	ErrIntegratedWithCredentials = errors.New("integrated security cannot be combined with a user name or password")

	// ErrIncompleteCredentials is returned when password authentication is
	// missing the user name or the password.
	ErrIncompleteCredentials = errors.New("password authentication requires both a user name and a password")
)

// Validate checks that the database settings can produce a DSN
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if strings.TrimSpace(d.Path) == "" {
			return errors.New("database path is required for sqlite")
		}
	case DriverPostgres:
		if d.URL != "" {
			return nil
		}
		if strings.TrimSpace(d.Host) == "" {
			return errors.New("database host is required for postgres")
		}
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("database name is required for postgres")
		}
		if d.IntegratedSecurity {
			if d.User != "" || d.Password != "" {
				return ErrIntegratedWithCredentials
			}
		} else if d.User == "" || d.Password == "" {
			return ErrIncompleteCredentials
		}
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
	if d.CommandTimeout < 0 {
		return errors.New("command timeout must be >= 0")
	}
	return nil
}

// DSN assembles the connection string for the configured driver
func (d DatabaseConfig) DSN() (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	if d.Driver == DriverSQLite {
		return SQLiteDSN(d.Path), nil
	}
	if d.URL != "" {
		return d.URL, nil
	}
	return d.postgresDSN(), nil
}

// SQLiteDSN adds the pragmas every connection needs to a database path
func SQLiteDSN(path string) string {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	if path != MemoryPath {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=" + strings.Join(pragmas, "&_pragma=")
}

func (d DatabaseConfig) postgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if !d.IntegratedSecurity {
		u.User = url.UserPassword(d.User, d.Password)
	}

	q := url.Values{}
	q.Set("sslmode", d.sslMode())
	if secs := int(d.PingTimeout.Duration().Seconds()); secs > 0 {
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (d DatabaseConfig) sslMode() string {
	switch {
	case d.Encrypt != nil && !*d.Encrypt:
		return "disable"
	case d.TrustServerCertificate:
		return "require"
	default:
		return "verify-full"
	}
}
