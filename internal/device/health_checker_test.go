package device

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-gateway/internal/database"
	"edge-gateway/internal/model"
)

func newTestChecker(registry *Registry) *HealthChecker {
	return NewHealthChecker(registry, database.NewDriverRegistry(), time.Second, zerolog.Nop())
}

func TestCheckDeviceSkipsUnprobedTypes(t *testing.T) {
	registry := newTestRegistry()
	checker := newTestChecker(registry)

	dev, err := model.NewDevice("events", model.DeviceTypeStream, "nats://broker:4222")
	require.NoError(t, err)
	dev.SetStatus(model.DeviceStatusDegraded)

	result := checker.CheckDevice(context.Background(), dev)

	assert.Equal(t, model.DeviceStatusDegraded, result.Status)
	assert.Equal(t, model.DeviceStatusDegraded, dev.Status(), "status must be preserved")
	assert.Contains(t, result.Message, "no probe")
}

func TestCheckDeviceFileOnline(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "readings.csv")
	require.NoError(t, os.WriteFile(file, []byte("id\n1\n"), 0o644))

	registry := newTestRegistry()
	checker := newTestChecker(registry)

	dev, err := model.NewDevice("exports", model.DeviceTypeFile, file)
	require.NoError(t, err)

	result := checker.CheckDevice(context.Background(), dev)

	assert.Equal(t, model.DeviceStatusOnline, result.Status)
	assert.Equal(t, model.DeviceStatusOnline, dev.Status())
}

func TestCheckDeviceFileMissingPathDegrades(t *testing.T) {
	registry := newTestRegistry()
	checker := newTestChecker(registry)

	dev, err := model.NewDevice("exports", model.DeviceTypeFile, filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)

	result := checker.CheckDevice(context.Background(), dev)

	assert.Equal(t, model.DeviceStatusDegraded, result.Status)
	assert.Equal(t, model.DeviceStatusDegraded, dev.Status())
}

func TestCheckAllCoversRegistry(t *testing.T) {
	registry := newTestRegistry()
	checker := newTestChecker(registry)

	for _, name := range []string{"a", "b", "c"} {
		dev, err := model.NewDevice(name, model.DeviceTypeStream, "nats://broker:4222")
		require.NoError(t, err)
		require.NoError(t, registry.Register(dev))
	}

	results := checker.CheckAll(context.Background())
	assert.Len(t, results, 3)
}
