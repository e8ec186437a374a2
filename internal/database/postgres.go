package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// PostgresDriver covers PostgreSQL and wire-compatible engines.
type PostgresDriver struct{}

func (d *PostgresDriver) Open(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// FormatDSN expects a URL-style DSN, e.g.
// postgres://host:5432/dbname?sslmode=disable.
func (d *PostgresDriver) FormatDSN(connection, username, password string) string {
	return injectURLCredentials(connection, "postgres", username, password)
}

func (d *PostgresDriver) DefaultPort() int {
	return 5432
}

func (d *PostgresDriver) Name() string {
	return "postgres"
}

func (d *PostgresDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
