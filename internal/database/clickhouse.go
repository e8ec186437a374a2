package database

import (
	"context"
	"database/sql"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseDriver covers ClickHouse over its native protocol.
type ClickHouseDriver struct{}

func (d *ClickHouseDriver) Open(dsn string) (*sql.DB, error) {
	return sql.Open("clickhouse", dsn)
}

// FormatDSN expects a URL-style DSN, e.g. clickhouse://host:9000/dbname.
func (d *ClickHouseDriver) FormatDSN(connection, username, password string) string {
	return injectURLCredentials(connection, "clickhouse", username, password)
}

func (d *ClickHouseDriver) DefaultPort() int {
	return 9000
}

func (d *ClickHouseDriver) Name() string {
	return "clickhouse"
}

func (d *ClickHouseDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
