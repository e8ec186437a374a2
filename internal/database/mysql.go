package database

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDriver covers MySQL and MariaDB.
type MySQLDriver struct{}

func (d *MySQLDriver) Open(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// FormatDSN expects the go-sql-driver form without credentials, e.g.
// tcp(host:3306)/dbname.
func (d *MySQLDriver) FormatDSN(connection, username, password string) string {
	if username == "" {
		return connection
	}
	return username + ":" + password + "@" + connection
}

func (d *MySQLDriver) DefaultPort() int {
	return 3306
}

func (d *MySQLDriver) Name() string {
	return "mysql"
}

func (d *MySQLDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
