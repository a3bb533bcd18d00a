package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Fatal before or during a run
	ErrorCategoryFatal          ErrorCategory = "FATAL"
	ErrorCategoryConfiguration  ErrorCategory = "CONFIG"
	ErrorCategoryMalformedInput ErrorCategory = "MALFORMED_INPUT"
	ErrorCategoryCredentials    ErrorCategory = "CREDENTIALS"

	// History providers
	ErrorCategoryData     ErrorCategory = "DATA"
	ErrorCategoryExchange ErrorCategory = "EXCHANGE"
	ErrorCategoryNetwork  ErrorCategory = "NETWORK"
	ErrorCategoryTimeout  ErrorCategory = "TIMEOUT"

	// Temporary errors
	ErrorCategoryTemporary ErrorCategory = "TEMPORARY"
	ErrorCategoryRateLimit ErrorCategory = "RATE_LIMIT"
)

// AllocatorError represents a categorized error with context
type AllocatorError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
	Retryable  bool
}

// Error implements the error interface
func (e *AllocatorError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AllocatorError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error can be retried
func (e *AllocatorError) IsRetryable() bool {
	return e.Retryable
}

// IsFatal returns whether this error should stop the run
func (e *AllocatorError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal ||
		e.Category == ErrorCategoryCredentials ||
		e.Category == ErrorCategoryConfiguration ||
		e.Category == ErrorCategoryMalformedInput
}

// NewAllocatorError creates a new categorized error
func NewAllocatorError(category ErrorCategory, component, operation, message string) *AllocatorError {
	return &AllocatorError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Retryable: isRetryableCategory(category),
	}
}

// WrapError wraps an existing error with allocator error context
func WrapError(err error, category ErrorCategory, component, operation string) *AllocatorError {
	if err == nil {
		return nil
	}

	return &AllocatorError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
		Retryable:  isRetryableCategory(category),
	}
}

// WithContext adds context information to the error
func (e *AllocatorError) WithContext(key string, value interface{}) *AllocatorError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRetryable sets the retryable flag
func (e *AllocatorError) WithRetryable(retryable bool) *AllocatorError {
	e.Retryable = retryable
	return e
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorCategoryNetwork, ErrorCategoryTimeout, ErrorCategoryTemporary, ErrorCategoryRateLimit:
		return true
	default:
		return false
	}
}

// CategorizeError attempts to categorize a generic error
func CategorizeError(err error, component, operation string) *AllocatorError {
	if err == nil {
		return nil
	}

	var allocErr *AllocatorError
	if stderrors.As(err, &allocErr) {
		return allocErr
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "context deadline exceeded") {
		return WrapError(err, ErrorCategoryTimeout, component, operation)
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dns") || strings.Contains(errMsg, "dial") {
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	if strings.Contains(errMsg, "api key") || strings.Contains(errMsg, "api secret") ||
		strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return WrapError(err, ErrorCategoryCredentials, component, operation)
	}

	if strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "too many requests") {
		return WrapError(err, ErrorCategoryRateLimit, component, operation)
	}

	if strings.Contains(errMsg, "no such file") || strings.Contains(errMsg, "csv") {
		return WrapError(err, ErrorCategoryData, component, operation)
	}

	return WrapError(err, ErrorCategoryTemporary, component, operation)
}

// Category returns the category of err, or "" when err is not categorized
func Category(err error) ErrorCategory {
	var allocErr *AllocatorError
	if stderrors.As(err, &allocErr) {
		return allocErr.Category
	}
	return ""
}

// Is reports whether err carries the given category
func Is(err error, category ErrorCategory) bool {
	return Category(err) == category
}

// Common error constructors
func NewConfigurationError(component, operation, message string) *AllocatorError {
	return NewAllocatorError(ErrorCategoryConfiguration, component, operation, message)
}

func NewMalformedInputError(component, operation, message string) *AllocatorError {
	return NewAllocatorError(ErrorCategoryMalformedInput, component, operation, message)
}

func NewDataError(component, operation string, err error) *AllocatorError {
	return WrapError(err, ErrorCategoryData, component, operation)
}

func NewExchangeError(component, operation string, err error) *AllocatorError {
	return WrapError(err, ErrorCategoryExchange, component, operation)
}

func NewNetworkError(component, operation string, err error) *AllocatorError {
	return WrapError(err, ErrorCategoryNetwork, component, operation)
}

func NewFatalError(component, operation, message string) *AllocatorError {
	return NewAllocatorError(ErrorCategoryFatal, component, operation, message)
}

// RecoveryAction is the suggested reaction of the caller to an error
type RecoveryAction string

const (
	RecoveryActionRetry RecoveryAction = "RETRY"
	RecoveryActionSkip  RecoveryAction = "SKIP"
	RecoveryActionStop  RecoveryAction = "STOP"
	RecoveryActionWait  RecoveryAction = "WAIT"
)

// GetRecoveryAction suggests a recovery action based on error category
func (e *AllocatorError) GetRecoveryAction() RecoveryAction {
	switch e.Category {
	case ErrorCategoryFatal, ErrorCategoryCredentials, ErrorCategoryConfiguration, ErrorCategoryMalformedInput:
		return RecoveryActionStop
	case ErrorCategoryRateLimit:
		return RecoveryActionWait
	case ErrorCategoryNetwork, ErrorCategoryTimeout, ErrorCategoryTemporary:
		return RecoveryActionRetry
	case ErrorCategoryData, ErrorCategoryExchange:
		if e.Retryable {
			return RecoveryActionRetry
		}
		return RecoveryActionSkip
	default:
		return RecoveryActionSkip
	}
}
