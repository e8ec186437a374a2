package query

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"edge-gateway/internal/device"
	"edge-gateway/internal/model"
	"edge-gateway/internal/pushdown"
)

// Executor runs device-bound SQL against one family of devices and returns
// the uniform columns-and-rows shape.
type Executor interface {
	Execute(ctx context.Context, dev *model.Device, deviceSQL string, req *model.QueryRequest) (columns []string, rows []map[string]interface{}, err error)
}

// Engine orchestrates a federated query: device lookup, pushdown analysis,
// rewrite, per-type dispatch, timing, and result assembly. Execution is
// synchronous on the caller's goroutine; concurrent calls need no
// coordination because each execution owns its connection.
type Engine struct {
	registry   *device.Registry
	optimizer  *pushdown.Optimizer
	relational Executor
	logger     zerolog.Logger
}

// NewEngine creates a query engine.
func NewEngine(registry *device.Registry, optimizer *pushdown.Optimizer, relational Executor, logger zerolog.Logger) *Engine {
	return &Engine{
		registry:   registry,
		optimizer:  optimizer,
		relational: relational,
		logger:     logger.With().Str("component", "query_engine").Logger(),
	}
}

// Execute runs the request and returns its result. All failures are
// *QueryError values carrying a discriminated reason. The engine performs
// no retries and no local filtering; local predicates are reported in the
// plan summary only.
func (e *Engine) Execute(ctx context.Context, req *model.QueryRequest) (*model.QueryResult, error) {
	req.ApplyDefaults()

	dev := e.registry.Find(req.TargetDeviceID)
	if dev == nil {
		return nil, newDeviceNotFound(req.TargetDeviceID)
	}

	// Only OFFLINE blocks execution. DEGRADED and UNKNOWN pass through,
	// and a device flipping offline after this check still gets its query
	// attempted; status reads tolerate that staleness.
	if dev.Status() == model.DeviceStatusOffline {
		return nil, newDeviceOffline(dev.Name())
	}

	plan := e.optimizer.Analyse(req.SQL, dev)
	deviceSQL := e.optimizer.RewriteForDevice(req.SQL, plan)

	start := time.Now()

	var (
		columns []string
		rows    []map[string]interface{}
	)
	switch dev.Type() {
	case model.DeviceTypeRelational:
		var err error
		columns, rows, err = e.relational.Execute(ctx, dev, deviceSQL, req)
		if err != nil {
			e.logger.Error().Err(err).
				Str("device_name", dev.Name()).
				Msg("query execution failed")
			return nil, newExecutionFailure(dev.Name(), err)
		}
	case model.DeviceTypeFile:
		// File execution is an extension point. Callers get an empty,
		// well-formed result instead of an error so the contract stays
		// predictable on this path. An explicit projection is echoed in
		// the column header.
		return &model.QueryResult{
			Columns:         append([]string{}, plan.PushedColumns...),
			Rows:            []map[string]interface{}{},
			ExecutionTimeMs: time.Since(start).Milliseconds(),
			PushdownApplied: false,
			PushdownSummary: "file device execution not implemented; returning empty result",
		}, nil
	default:
		return nil, newUnsupportedDeviceType(dev.Name(), dev.Type())
	}

	elapsed := time.Since(start).Milliseconds()

	e.logger.Info().
		Str("device_name", dev.Name()).
		Int("rows", len(rows)).
		Int64("duration_ms", elapsed).
		Bool("pushdown", len(plan.PushedPredicates) > 0).
		Msg("query completed")

	return &model.QueryResult{
		Columns:         columns,
		Rows:            rows,
		ExecutionTimeMs: elapsed,
		PushdownApplied: len(plan.PushedPredicates) > 0,
		PushdownSummary: plan.Summary,
	}, nil
}
