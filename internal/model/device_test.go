package model

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceValidation(t *testing.T) {
	_, err := NewDevice("", DeviceTypeRelational, "host:3306/db")
	assert.Error(t, err)

	_, err = NewDevice("warehouse", DeviceType("graph"), "bolt://host")
	assert.Error(t, err)

	d, err := NewDevice("warehouse", DeviceTypeRelational, "host:3306/db")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, d.ID())
	assert.Equal(t, DeviceStatusUnknown, d.Status())
}

func TestNewDeviceWithIDKeepsID(t *testing.T) {
	id := uuid.New()
	d, err := NewDeviceWithID(id, "warehouse", DeviceTypeFile, "s3://bucket/data.csv")
	require.NoError(t, err)
	assert.Equal(t, id, d.ID())
}

func TestDevicePropertyLookup(t *testing.T) {
	d, err := NewDevice("warehouse", DeviceTypeRelational, "host:3306/db",
		DeviceProperty{Key: PropDBUser, Value: "edge"},
		DeviceProperty{Key: PropDBDriver, Value: "clickhouse"},
	)
	require.NoError(t, err)

	assert.Equal(t, "edge", d.Property(PropDBUser, ""))
	assert.Equal(t, "clickhouse", d.Property(PropDBDriver, "mysql"))
	assert.Equal(t, "mysql", d.Property("db.missing", "mysql"))
}

func TestDevicePropertiesCopied(t *testing.T) {
	props := []DeviceProperty{{Key: PropDBUser, Value: "edge"}}
	d, err := NewDevice("warehouse", DeviceTypeRelational, "host:3306/db", props...)
	require.NoError(t, err)

	props[0].Value = "mutated"
	assert.Equal(t, "edge", d.Property(PropDBUser, ""))

	got := d.Properties()
	got[0].Value = "mutated"
	assert.Equal(t, "edge", d.Property(PropDBUser, ""))
}

func TestDeviceStatusConcurrentAccess(t *testing.T) {
	d, err := NewDevice("warehouse", DeviceTypeRelational, "host:3306/db")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.SetStatus(DeviceStatusOnline)
		}()
		go func() {
			defer wg.Done()
			_ = d.Status()
		}()
	}
	wg.Wait()

	assert.Equal(t, DeviceStatusOnline, d.Status())
}

func TestIsValidDeviceType(t *testing.T) {
	for _, valid := range []string{"relational", "file", "rest", "stream", "custom"} {
		assert.True(t, IsValidDeviceType(valid), valid)
	}
	assert.False(t, IsValidDeviceType("graph"))
	assert.False(t, IsValidDeviceType(""))
	assert.False(t, IsValidDeviceType("Relational"))
}

func TestQueryRequestApplyDefaults(t *testing.T) {
	req := QueryRequest{TargetDeviceID: uuid.New(), SQL: "SELECT 1"}
	req.ApplyDefaults()

	assert.Equal(t, DefaultFetchSize, req.FetchSize)
	assert.Equal(t, int64(DefaultTimeoutMs), req.TimeoutMs)
	assert.Equal(t, 0, req.MaxRows)

	capped := QueryRequest{SQL: "SELECT 1", MaxRows: 10, FetchSize: 50, TimeoutMs: 500}
	capped.ApplyDefaults()
	assert.Equal(t, 10, capped.MaxRows)
	assert.Equal(t, 50, capped.FetchSize)
	assert.Equal(t, int64(500), capped.TimeoutMs)
}
