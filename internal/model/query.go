package model

import (
	"github.com/google/uuid"
)

// Request defaults applied by ApplyDefaults.
const (
	DefaultFetchSize = 1000
	DefaultTimeoutMs = 30_000
)

// QueryRequest is a SQL query directed at a specific device. Parameters are
// positional, matching ?-style placeholders in SQL. MaxRows of 0 means
// unlimited. The request is treated as immutable once defaults are applied.
type QueryRequest struct {
	TargetDeviceID uuid.UUID     `json:"targetDeviceId" validate:"required"`
	SQL            string        `json:"sql" validate:"required"`
	Parameters     []interface{} `json:"parameters"`
	MaxRows        int           `json:"maxRows" validate:"omitempty,min=0"`
	FetchSize      int           `json:"fetchSize" validate:"omitempty,min=1,max=10000"`
	TimeoutMs      int64         `json:"timeoutMs" validate:"omitempty,min=1"`
}

// ApplyDefaults fills unset batch size and timeout. MaxRows stays 0
// (unlimited) unless the caller capped it.
func (qr *QueryRequest) ApplyDefaults() {
	if qr.FetchSize <= 0 {
		qr.FetchSize = DefaultFetchSize
	}
	if qr.TimeoutMs <= 0 {
		qr.TimeoutMs = DefaultTimeoutMs
	}
}

// QueryResult is the uniform tabular answer assembled by the query engine.
// Columns preserve the order and labels reported by the device; each row
// maps column name to a value taken from the driver without coercion
// (values may be nil). Immutable once built.
type QueryResult struct {
	Columns         []string                 `json:"columns"`
	Rows            []map[string]interface{} `json:"rows"`
	ExecutionTimeMs int64                    `json:"executionTimeMs"`
	PushdownApplied bool                     `json:"pushdownApplied"`
	PushdownSummary string                   `json:"pushdownSummary"`
}

// RowCount returns the number of rows in the result.
func (qr *QueryResult) RowCount() int {
	return len(qr.Rows)
}
