package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes provider-related errors.
type ErrorType string

const (
	// ErrTypeProvider indicates generic provider errors.
	ErrTypeProvider ErrorType = "provider"

	// ErrTypeConfiguration indicates configuration errors.
	ErrTypeConfiguration ErrorType = "configuration"

	// ErrTypeAuthentication indicates authentication errors.
	ErrTypeAuthentication ErrorType = "authentication"

	// ErrTypeNetwork indicates network-related errors.
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeTimeout indicates timeout errors.
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeValidation indicates input validation errors.
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeRegistration indicates provider registration errors.
	ErrTypeRegistration ErrorType = "registration"

	// ErrTypeNotFound indicates provider not found errors.
	ErrTypeNotFound ErrorType = "not_found"

	// ErrTypeEmbedding indicates a failed embedding call. Index builds
	// cannot proceed past this; it is a hard failure for the caller.
	ErrTypeEmbedding ErrorType = "embedding"

	// ErrTypeInternal indicates internal errors.
	ErrTypeInternal ErrorType = "internal"
)

// ProviderError is the error type surfaced by LLM providers.
type ProviderError struct {
	// Type categorizes the error.
	Type ErrorType `json:"type"`

	// Message provides a human-readable description.
	Message string `json:"message"`

	// Provider indicates which provider caused the error.
	Provider string `json:"provider,omitempty"`

	// StatusCode for HTTP-related errors.
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`

	// Retryable indicates whether the operation can be retried.
	Retryable bool `json:"retryable"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}

	parts = append(parts, fmt.Sprintf("type=%s", e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is matches errors by type so callers can classify with errors.Is.
func (e *ProviderError) Is(target error) bool {
	if pe, ok := target.(*ProviderError); ok {
		return e.Type == pe.Type
	}
	return false
}

// IsRetryable returns whether the error is retryable.
func (e *ProviderError) IsRetryable() bool {
	return e.Retryable
}

// ConfigurationError reports an invalid provider configuration field.
type ConfigurationError struct {
	Provider string `json:"provider"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for provider '%s', field '%s': %s",
		e.Provider, e.Field, e.Message)
}

// ValidationError reports an invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewProviderError creates a new provider error.
func NewProviderError(errType ErrorType, message, provider string) *ProviderError {
	return &ProviderError{
		Type:      errType,
		Message:   message,
		Provider:  provider,
		Retryable: isRetryableError(errType),
	}
}

// NewProviderErrorWithCause creates a provider error with an underlying cause.
func NewProviderErrorWithCause(errType ErrorType, message, provider string, cause error) *ProviderError {
	return &ProviderError{
		Type:      errType,
		Message:   message,
		Provider:  provider,
		Cause:     cause,
		Retryable: isRetryableError(errType),
	}
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(provider, field, message string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Field:    field,
		Message:  message,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

func isRetryableError(errType ErrorType) bool {
	switch errType {
	case ErrTypeTimeout, ErrTypeNetwork:
		return true
	default:
		return false
	}
}

// IsEmbeddingError checks whether an error came from a failed embedding
// call, unwrapping as needed.
func IsEmbeddingError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Type == ErrTypeEmbedding
	}
	return false
}

// IsRetryableError checks whether an error is retryable.
func IsRetryableError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}
	return false
}
