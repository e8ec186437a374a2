package response

import (
	"time"
)

// Error codes used by the HTTP surface.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// StandardResponse is the envelope for every API response.
type StandardResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
	Timestamp     time.Time   `json:"timestamp"`
}

// ErrorInfo carries the machine-readable error payload.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response wrapping data.
func Success(data interface{}, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success:       true,
		Data:          data,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// SuccessMessage creates a successful response carrying only a message.
func SuccessMessage(message, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success:       true,
		Message:       message,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// Error creates an error response.
func Error(code, message, details, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// ValidationError creates a request-validation error response.
func ValidationError(message, correlationID string) *StandardResponse {
	return Error(CodeValidationFailed, message, "", correlationID)
}

// NotFound creates a not-found error response.
func NotFound(message, correlationID string) *StandardResponse {
	return Error(CodeNotFound, message, "", correlationID)
}

// Conflict creates a conflict error response.
func Conflict(message, correlationID string) *StandardResponse {
	return Error(CodeConflict, message, "", correlationID)
}

// Unauthorized creates an unauthorized error response.
func Unauthorized(message, correlationID string) *StandardResponse {
	if message == "" {
		message = "unauthorized"
	}
	return Error(CodeUnauthorized, message, "", correlationID)
}

// InternalError creates a generic internal error response.
func InternalError(correlationID string) *StandardResponse {
	return Error(CodeInternalError, "an internal error occurred", "", correlationID)
}
