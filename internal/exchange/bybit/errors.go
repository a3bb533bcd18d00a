package bybit

import (
	"errors"
	"fmt"
	"net/http"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BybitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Bybit API error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes
const (
	ErrCodeInvalidAPIKey     = 10003
	ErrCodeInvalidSignature  = 10004
	ErrCodeInvalidTimestamp  = 10005
	ErrCodeRateLimitExceeded = 10006
	ErrCodeInvalidParameter  = 10001
	ErrCodeSymbolNotFound    = 110009
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		switch bybitErr.Code {
		case ErrCodeRateLimitExceeded,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// IsAuthenticationError checks if the error is related to authentication
func IsAuthenticationError(err error) bool {
	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		switch bybitErr.Code {
		case ErrCodeInvalidAPIKey, ErrCodeInvalidSignature, ErrCodeInvalidTimestamp:
			return true
		}
	}
	return false
}

// IsRateLimitError checks if the error is due to rate limiting
func IsRateLimitError(err error) bool {
	var bybitErr *BybitError
	return errors.As(err, &bybitErr) && bybitErr.Code == ErrCodeRateLimitExceeded
}

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string, details ...string) *BybitError {
	err := &BybitError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// ParseAPIError extracts error information from the API response
func ParseAPIError(retCode int, retMsg string) error {
	if retCode == 0 {
		return nil
	}
	return NewBybitError(retCode, retMsg)
}

// Categorize maps an exchange error onto the allocator error taxonomy
func Categorize(err error, operation string) *allocerrors.AllocatorError {
	if err == nil {
		return nil
	}

	switch {
	case IsRateLimitError(err):
		return allocerrors.WrapError(err, allocerrors.ErrorCategoryRateLimit, "bybit", operation)
	case IsAuthenticationError(err):
		return allocerrors.WrapError(err, allocerrors.ErrorCategoryCredentials, "bybit", operation)
	case IsRetryableError(err):
		return allocerrors.WrapError(err, allocerrors.ErrorCategoryTemporary, "bybit", operation)
	}

	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		return allocerrors.NewExchangeError("bybit", operation, err).WithContext("code", bybitErr.Code)
	}
	return allocerrors.CategorizeError(err, "bybit", operation)
}
