package database

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultDriverName is used when a device does not carry a db.driver
// property.
const DefaultDriverName = "mysql"

// DriverRegistry maps driver names to Driver implementations. Built-in
// drivers are registered at construction; custom ones may be added later.
type DriverRegistry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

// NewDriverRegistry creates a registry with the built-in drivers.
func NewDriverRegistry() *DriverRegistry {
	dr := &DriverRegistry{
		drivers: make(map[string]Driver),
	}
	dr.Register(&MySQLDriver{})
	dr.Register(&PostgresDriver{})
	dr.Register(&OracleDriver{})
	dr.Register(&ClickHouseDriver{})
	dr.Register(&SnowflakeDriver{})
	return dr
}

// Register adds or replaces a driver under its own name.
func (dr *DriverRegistry) Register(d Driver) {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	dr.drivers[d.Name()] = d
}

// Lookup returns the driver registered under name.
func (dr *DriverRegistry) Lookup(name string) (Driver, error) {
	dr.mu.RLock()
	d, ok := dr.drivers[name]
	dr.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", name)
	}
	return d, nil
}

// IsSupported checks whether a driver name is registered.
func (dr *DriverRegistry) IsSupported(name string) bool {
	dr.mu.RLock()
	_, ok := dr.drivers[name]
	dr.mu.RUnlock()
	return ok
}

// SupportedDrivers returns the registered driver names, sorted.
func (dr *DriverRegistry) SupportedDrivers() []string {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	names := make([]string, 0, len(dr.drivers))
	for name := range dr.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
