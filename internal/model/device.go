package model

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type DeviceType string

const (
	// DeviceTypeRelational is a SQL-speaking database reachable through a
	// database/sql driver (MySQL, PostgreSQL, Oracle, ClickHouse, Snowflake).
	DeviceTypeRelational DeviceType = "relational"
	// DeviceTypeFile is a file-backed source on local disk, S3, or MinIO.
	DeviceTypeFile DeviceType = "file"
	// DeviceTypeRest is an HTTP endpoint that accepts filter/sort parameters.
	DeviceTypeRest DeviceType = "rest"
	// DeviceTypeStream is a message-broker stream.
	DeviceTypeStream DeviceType = "stream"
	// DeviceTypeCustom is a generic extension point.
	DeviceTypeCustom DeviceType = "custom"
)

// IsValidDeviceType checks if a device type is part of the closed set.
func IsValidDeviceType(t string) bool {
	switch DeviceType(t) {
	case DeviceTypeRelational, DeviceTypeFile, DeviceTypeRest, DeviceTypeStream, DeviceTypeCustom:
		return true
	default:
		return false
	}
}

type DeviceStatus string

const (
	DeviceStatusUnknown  DeviceStatus = "unknown"
	DeviceStatusOnline   DeviceStatus = "online"
	DeviceStatusOffline  DeviceStatus = "offline"
	DeviceStatusDegraded DeviceStatus = "degraded"
)

// Well-known property keys interpreted by the relational executor.
const (
	PropDBUser     = "db.user"
	PropDBPassword = "db.password"
	PropDBDriver   = "db.driver"
)

// DeviceProperty is a single key/value entry in a device's property bag.
// Properties keep registration order, unlike a plain map.
type DeviceProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Device is a registered, queryable endpoint at the edge: an on-premise
// database, a file on local disk or object storage, a REST service, or a
// broker stream. Identity, name, type, connection descriptor, and the
// property bag are fixed at construction. Status is the only mutable field;
// it is written by the background health checker and read by the query
// engine without locking, so a device may flip offline moments after the
// engine's check and still have its query attempted.
type Device struct {
	id         uuid.UUID
	name       string
	deviceType DeviceType
	connection string
	properties []DeviceProperty

	status atomic.Value // DeviceStatus
}

// NewDevice creates a device with a fresh random id and status unknown.
func NewDevice(name string, deviceType DeviceType, connection string, properties ...DeviceProperty) (*Device, error) {
	return NewDeviceWithID(uuid.New(), name, deviceType, connection, properties...)
}

// NewDeviceWithID creates a device with a caller-supplied id, e.g. when
// restoring a bootstrap configuration.
func NewDeviceWithID(id uuid.UUID, name string, deviceType DeviceType, connection string, properties ...DeviceProperty) (*Device, error) {
	if name == "" {
		return nil, fmt.Errorf("device name must not be empty")
	}
	if !IsValidDeviceType(string(deviceType)) {
		return nil, fmt.Errorf("invalid device type: %s", deviceType)
	}

	d := &Device{
		id:         id,
		name:       name,
		deviceType: deviceType,
		connection: connection,
		properties: append([]DeviceProperty(nil), properties...),
	}
	d.status.Store(DeviceStatusUnknown)

	return d, nil
}

func (d *Device) ID() uuid.UUID    { return d.id }
func (d *Device) Name() string     { return d.name }
func (d *Device) Type() DeviceType { return d.deviceType }

// ConnectionString returns the connection descriptor, opaque to the
// registry and interpreted by the executor.
func (d *Device) ConnectionString() string { return d.connection }

// Properties returns a copy of the property bag in registration order.
func (d *Device) Properties() []DeviceProperty {
	return append([]DeviceProperty(nil), d.properties...)
}

// Property returns the first value for key, or def when absent.
func (d *Device) Property(key, def string) string {
	for _, p := range d.properties {
		if p.Key == key {
			return p.Value
		}
	}
	return def
}

// Status returns the last status written by the health checker.
func (d *Device) Status() DeviceStatus {
	return d.status.Load().(DeviceStatus)
}

// SetStatus is called by the health checker; safe under concurrent readers.
func (d *Device) SetStatus(s DeviceStatus) {
	d.status.Store(s)
}

func (d *Device) String() string {
	return fmt.Sprintf("Device{id=%s, name=%q, type=%s, status=%s}", d.id, d.name, d.deviceType, d.Status())
}
