package database

import (
	"context"
	"database/sql"

	_ "github.com/sijms/go-ora/v2"
)

// OracleDriver covers Oracle via the pure-Go go-ora driver.
type OracleDriver struct{}

func (d *OracleDriver) Open(dsn string) (*sql.DB, error) {
	return sql.Open("oracle", dsn)
}

// FormatDSN expects a URL-style DSN, e.g. oracle://host:1521/service.
func (d *OracleDriver) FormatDSN(connection, username, password string) string {
	return injectURLCredentials(connection, "oracle", username, password)
}

func (d *OracleDriver) DefaultPort() int {
	return 1521
}

func (d *OracleDriver) Name() string {
	return "oracle"
}

func (d *OracleDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
