package database

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
)

// Driver binds a relational device family to its database/sql driver. Each
// implementation wraps one registered sql driver and knows how to merge
// device credentials into that driver's DSN dialect.
type Driver interface {
	// Open establishes a fresh connection handle. Callers own the handle
	// and must close it; no pooling happens above database/sql.
	Open(dsn string) (*sql.DB, error)

	// FormatDSN merges device credentials into the raw connection string.
	// An empty username leaves the connection string untouched.
	FormatDSN(connection, username, password string) string

	// DefaultPort returns the conventional port for the database.
	DefaultPort() int

	// Name is the registry key, matched against the device's db.driver
	// property.
	Name() string

	// TestConnection verifies the handle can reach the database.
	TestConnection(ctx context.Context, db *sql.DB) error
}

// injectURLCredentials places user:password@ into a URL-style DSN, adding
// the scheme when the connection string omits it.
func injectURLCredentials(connection, scheme, username, password string) string {
	if username == "" {
		return connection
	}
	cred := url.QueryEscape(username) + ":" + url.QueryEscape(password) + "@"
	if i := strings.Index(connection, "://"); i >= 0 {
		return connection[:i+3] + cred + connection[i+3:]
	}
	return scheme + "://" + cred + connection
}
