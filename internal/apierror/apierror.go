// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Reintentable tells the caller whether retrying the same request can succeed
// (lock contention) or not (corrupted data, terminal state).
type APIError struct {
	Detail       string `json:"detail"`
	Reintentable bool   `json:"reintentable,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// NewRetryable marks the error as safe to retry (e.g. serialization conflict).
func NewRetryable(msg string) *APIError {
	return &APIError{Detail: msg, Reintentable: true}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
