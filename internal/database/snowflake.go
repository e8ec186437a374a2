package database

import (
	"context"
	"database/sql"

	_ "github.com/snowflakedb/gosnowflake"
)

// SnowflakeDriver covers Snowflake warehouses.
type SnowflakeDriver struct{}

func (d *SnowflakeDriver) Open(dsn string) (*sql.DB, error) {
	return sql.Open("snowflake", dsn)
}

// FormatDSN expects the gosnowflake form without credentials, e.g.
// account/dbname/schema.
func (d *SnowflakeDriver) FormatDSN(connection, username, password string) string {
	if username == "" {
		return connection
	}
	return username + ":" + password + "@" + connection
}

// DefaultPort returns the HTTPS port the driver always uses.
func (d *SnowflakeDriver) DefaultPort() int {
	return 443
}

func (d *SnowflakeDriver) Name() string {
	return "snowflake"
}

func (d *SnowflakeDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
