package device

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edge-gateway/internal/model"
)

// ErrDuplicateDevice is returned when a second registration reuses an id.
var ErrDuplicateDevice = errors.New("device already registered")

// Registry is the thread-safe catalog of all devices known to this gateway
// node. It is the single source of truth for device discovery: the query
// engine resolves target ids here, and the background health checker walks
// it to refresh statuses. Devices are shared by reference, so a status
// update is visible to every holder without a second lookup.
type Registry struct {
	mu      sync.RWMutex
	devices map[uuid.UUID]*model.Device
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		devices: make(map[uuid.UUID]*model.Device),
		logger:  logger.With().Str("component", "device_registry").Logger(),
	}
}

// Register adds a device. A second registration with the same id fails with
// ErrDuplicateDevice and leaves the first registration in place.
func (r *Registry) Register(d *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[d.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, d.ID())
	}
	r.devices[d.ID()] = d

	r.logger.Info().
		Stringer("device_id", d.ID()).
		Str("device_name", d.Name()).
		Str("device_type", string(d.Type())).
		Msg("registered device")

	return nil
}

// Deregister removes a device and reports whether a removal occurred.
// Removing an absent id is not an error.
func (r *Registry) Deregister(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[id]; !exists {
		return false
	}
	delete(r.devices, id)

	r.logger.Info().Stringer("device_id", id).Msg("deregistered device")

	return true
}

// Find returns the device with the given id, or nil if unknown.
func (r *Registry) Find(id uuid.UUID) *model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.devices[id]
}

// FindByName returns the first device whose name matches case-insensitively,
// or nil.
func (r *Registry) FindByName(name string) *model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.devices {
		if strings.EqualFold(d.Name(), name) {
			return d
		}
	}
	return nil
}

// FindByType returns all devices of the given type.
func (r *Registry) FindByType(t model.DeviceType) []*model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Device
	for _, d := range r.devices {
		if d.Type() == t {
			out = append(out, d)
		}
	}
	return out
}

// All returns a snapshot of every registered device.
func (r *Registry) All() []*model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	return out
}

// Size returns the number of registered devices.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.devices)
}
