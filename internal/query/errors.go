package query

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"edge-gateway/internal/model"
)

// FailureReason discriminates engine failures so callers can branch on the
// class of error without string matching.
type FailureReason string

const (
	// ReasonDeviceNotFound marks an unknown target device id. Not
	// retriable.
	ReasonDeviceNotFound FailureReason = "DEVICE_NOT_FOUND"

	// ReasonDeviceOffline marks a target whose status is OFFLINE. The
	// caller must re-check status or pick another device.
	ReasonDeviceOffline FailureReason = "DEVICE_OFFLINE"

	// ReasonUnsupportedDeviceType marks a device type with no executor.
	ReasonUnsupportedDeviceType FailureReason = "UNSUPPORTED_DEVICE_TYPE"

	// ReasonExecutionFailure wraps any connection, execution, or row
	// mapping failure. The engine never retries; retry policy belongs to
	// the host layer.
	ReasonExecutionFailure FailureReason = "EXECUTION_FAILURE"
)

// QueryError is the single error type surfaced by the engine.
type QueryError struct {
	Reason     FailureReason
	DeviceName string
	Message    string
	Cause      error
}

func (e *QueryError) Error() string {
	if e.DeviceName != "" {
		return fmt.Sprintf("[%s] device %s: %s", e.Reason, e.DeviceName, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Reason, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// ReasonOf extracts the failure reason from err, or "" when err is not a
// QueryError.
func ReasonOf(err error) FailureReason {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Reason
	}
	return ""
}

func newDeviceNotFound(id uuid.UUID) *QueryError {
	return &QueryError{
		Reason:  ReasonDeviceNotFound,
		Message: fmt.Sprintf("no device registered with id %s", id),
	}
}

func newDeviceOffline(deviceName string) *QueryError {
	return &QueryError{
		Reason:     ReasonDeviceOffline,
		DeviceName: deviceName,
		Message:    "device is offline",
	}
}

func newUnsupportedDeviceType(deviceName string, deviceType model.DeviceType) *QueryError {
	return &QueryError{
		Reason:     ReasonUnsupportedDeviceType,
		DeviceName: deviceName,
		Message:    fmt.Sprintf("no executor for device type %s", deviceType),
	}
}

func newExecutionFailure(deviceName string, cause error) *QueryError {
	return &QueryError{
		Reason:     ReasonExecutionFailure,
		DeviceName: deviceName,
		Message:    cause.Error(),
		Cause:      cause,
	}
}
