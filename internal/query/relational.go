package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"edge-gateway/internal/database"
	"edge-gateway/internal/model"
)

// RelationalExecutor runs device-bound SQL against SQL databases. Every
// call opens its own connection and closes it before returning; there is no
// pooling or reuse across calls.
type RelationalExecutor struct {
	drivers *database.DriverRegistry
	logger  zerolog.Logger
}

// NewRelationalExecutor creates a relational executor backed by the given
// driver registry.
func NewRelationalExecutor(drivers *database.DriverRegistry, logger zerolog.Logger) *RelationalExecutor {
	return &RelationalExecutor{
		drivers: drivers,
		logger:  logger.With().Str("component", "relational_executor").Logger(),
	}
}

// Execute opens a connection to the device, binds the request's positional
// parameters in order, runs deviceSQL, and maps the result stream into
// rows. Column order and labels are preserved exactly as the driver reports
// them; values are carried by identity with no type coercion.
func (e *RelationalExecutor) Execute(ctx context.Context, dev *model.Device, deviceSQL string, req *model.QueryRequest) ([]string, []map[string]interface{}, error) {
	driverName := dev.Property(model.PropDBDriver, database.DefaultDriverName)
	drv, err := e.drivers.Lookup(driverName)
	if err != nil {
		return nil, nil, err
	}

	dsn := drv.FormatDSN(
		dev.ConnectionString(),
		dev.Property(model.PropDBUser, ""),
		dev.Property(model.PropDBPassword, ""),
	)

	db, err := drv.Open(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open connection: %w", err)
	}
	defer db.Close()

	// One connection per execution, released with the handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
	defer cancel()

	e.logger.Debug().
		Str("device_name", dev.Name()).
		Str("driver", drv.Name()).
		Str("sql", deviceSQL).
		Msg("executing query")

	rows, err := db.QueryContext(ctx, deviceSQL, req.Parameters...)
	if err != nil {
		return nil, nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read column metadata: %w", err)
	}

	fetchSize := req.FetchSize
	if fetchSize <= 0 {
		fetchSize = model.DefaultFetchSize
	}
	out := make([]map[string]interface{}, 0, fetchSize)

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if req.MaxRows > 0 && len(out) >= req.MaxRows {
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	return columns, out, nil
}
