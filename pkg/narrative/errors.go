package narrative

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrDisabled is returned by the Disabled generator.
	ErrDisabled = errors.New("narrative: generation disabled")

	// ErrNoAPIKey is returned when an API key is required but missing.
	ErrNoAPIKey = errors.New("narrative: API key required")

	// ErrNoModel is returned when a model identifier is missing.
	ErrNoModel = errors.New("narrative: model required")

	// ErrEmptyResponse is returned when the service responds without
	// usable text (no candidates, blocked content, non-text parts).
	ErrEmptyResponse = errors.New("narrative: empty response")
)

// GenerateError represents an error response from the generation API.
type GenerateError struct {
	// Provider identifies which generator returned the error.
	Provider string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	return fmt.Sprintf("narrative [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsQuotaExceeded returns true if this is a rate limit error (HTTP 429).
func (e *GenerateError) IsQuotaExceeded() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *GenerateError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request could succeed on retry.
func (e *GenerateError) IsRetryable() bool {
	return e.IsQuotaExceeded() || e.IsServerError()
}

// ProviderError wraps an error with generator context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("narrative [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with generator context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
