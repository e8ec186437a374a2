package device

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edge-gateway/internal/database"
	"edge-gateway/internal/model"
	"edge-gateway/internal/storage"
)

// ProbeResult is the outcome of a single device health probe.
type ProbeResult struct {
	DeviceID   uuid.UUID          `json:"deviceId"`
	DeviceName string             `json:"deviceName"`
	DeviceType model.DeviceType   `json:"deviceType"`
	Status     model.DeviceStatus `json:"status"`
	Message    string             `json:"message,omitempty"`
	Latency    time.Duration      `json:"latency"`
	CheckedAt  time.Time          `json:"checkedAt"`
}

// HealthChecker probes registered devices and writes their status back to
// the shared device records. The engine reads those statuses without
// locking; a probe landing mid-query is expected and harmless.
type HealthChecker struct {
	registry *Registry
	drivers  *database.DriverRegistry
	timeout  time.Duration
	logger   zerolog.Logger

	// OnProbe, when set, observes every probe result. Used to export
	// device availability metrics.
	OnProbe func(ProbeResult)
}

// NewHealthChecker creates a health checker. timeout bounds each probe.
func NewHealthChecker(registry *Registry, drivers *database.DriverRegistry, timeout time.Duration, logger zerolog.Logger) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		registry: registry,
		drivers:  drivers,
		timeout:  timeout,
		logger:   logger.With().Str("component", "health_checker").Logger(),
	}
}

// CheckDevice probes one device and updates its status. Device types
// without a probe keep their current status.
func (hc *HealthChecker) CheckDevice(ctx context.Context, dev *model.Device) ProbeResult {
	start := time.Now()
	result := ProbeResult{
		DeviceID:   dev.ID(),
		DeviceName: dev.Name(),
		DeviceType: dev.Type(),
		CheckedAt:  start,
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	switch dev.Type() {
	case model.DeviceTypeRelational:
		result.Status, result.Message = hc.probeRelational(ctx, dev)
	case model.DeviceTypeFile:
		result.Status, result.Message = hc.probeFile(ctx, dev)
	default:
		result.Status = dev.Status()
		result.Message = fmt.Sprintf("no probe for device type %s", dev.Type())
		result.Latency = time.Since(start)
		return result
	}

	result.Latency = time.Since(start)
	dev.SetStatus(result.Status)
	if hc.OnProbe != nil {
		hc.OnProbe(result)
	}

	hc.logger.Debug().
		Str("device_name", dev.Name()).
		Str("status", string(result.Status)).
		Dur("latency", result.Latency).
		Msg("device probed")

	return result
}

func (hc *HealthChecker) probeRelational(ctx context.Context, dev *model.Device) (model.DeviceStatus, string) {
	drv, err := hc.drivers.Lookup(dev.Property(model.PropDBDriver, database.DefaultDriverName))
	if err != nil {
		return model.DeviceStatusOffline, err.Error()
	}

	dsn := drv.FormatDSN(
		dev.ConnectionString(),
		dev.Property(model.PropDBUser, ""),
		dev.Property(model.PropDBPassword, ""),
	)
	db, err := drv.Open(dsn)
	if err != nil {
		return model.DeviceStatusOffline, fmt.Sprintf("open connection: %v", err)
	}
	defer db.Close()

	if err := drv.TestConnection(ctx, db); err != nil {
		return model.DeviceStatusOffline, fmt.Sprintf("ping failed: %v", err)
	}
	return model.DeviceStatusOnline, "connection successful"
}

func (hc *HealthChecker) probeFile(ctx context.Context, dev *model.Device) (model.DeviceStatus, string) {
	provider, err := storage.NewProviderForDevice(ctx, dev, hc.logger)
	if err != nil {
		return model.DeviceStatusOffline, fmt.Sprintf("create storage provider: %v", err)
	}
	defer provider.Close()

	ok, err := provider.Exists(ctx, storage.ParsePath(dev.ConnectionString()))
	if err != nil {
		return model.DeviceStatusOffline, fmt.Sprintf("storage probe failed: %v", err)
	}
	if !ok {
		// Endpoint reachable but the configured object is missing.
		return model.DeviceStatusDegraded, "configured path not found"
	}
	return model.DeviceStatusOnline, "storage reachable"
}

// CheckAll probes every registered device.
func (hc *HealthChecker) CheckAll(ctx context.Context) []ProbeResult {
	devices := hc.registry.All()
	results := make([]ProbeResult, 0, len(devices))
	for _, dev := range devices {
		results = append(results, hc.CheckDevice(ctx, dev))
	}
	return results
}

// Run probes all devices on the interval until ctx is cancelled. Intended
// to run on its own goroutine.
func (hc *HealthChecker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.logger.Info().Dur("interval", interval).Msg("health checker started")

	for {
		select {
		case <-ctx.Done():
			hc.logger.Info().Msg("health checker stopped")
			return
		case <-ticker.C:
			results := hc.CheckAll(ctx)
			online := 0
			for _, r := range results {
				if r.Status == model.DeviceStatusOnline {
					online++
				}
			}
			hc.logger.Info().
				Int("devices", len(results)).
				Int("online", online).
				Msg("health check sweep complete")
		}
	}
}
