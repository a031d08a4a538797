package lookup

import (
	"context"
	"errors"
	"fmt"

	dErrors "signup/pkg/domain-errors"
)

// ErrorCategory is the normalized failure taxonomy for lookup calls.
type ErrorCategory string

const (
	ErrorTimeout          ErrorCategory = "timeout"
	ErrorBadData          ErrorCategory = "bad_data"
	ErrorAuthentication   ErrorCategory = "authentication"
	ErrorProviderOutage   ErrorCategory = "provider_outage"
	ErrorContractMismatch ErrorCategory = "contract_mismatch"
	ErrorNotFound         ErrorCategory = "not_found"
	ErrorRateLimited      ErrorCategory = "rate_limited"
	ErrorCanceled         ErrorCategory = "canceled"
	ErrorInternal         ErrorCategory = "internal"
)

// LookupError wraps a failed lookup with its category and endpoint.
type LookupError struct {
	Category   ErrorCategory
	Endpoint   string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *LookupError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("lookup %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("lookup %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// NewLookupError builds a LookupError. Timeouts, outages and rate limits are retryable.
func NewLookupError(category ErrorCategory, endpoint, message string, underlying error) *LookupError {
	return &LookupError{
		Category:   category,
		Endpoint:   endpoint,
		Message:    message,
		Underlying: underlying,
		Retryable: category == ErrorTimeout ||
			category == ErrorProviderOutage ||
			category == ErrorRateLimited,
	}
}

// IsRetryable reports whether err is a transient lookup failure.
func IsRetryable(err error) bool {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// GetCategory extracts the category from err. Context errors map to canceled or timeout;
// anything else unrecognised is internal.
func GetCategory(err error) ErrorCategory {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	}
	return ErrorInternal
}

// IsNotFound reports whether err means the remote has no record for the key.
func IsNotFound(err error) bool {
	return GetCategory(err) == ErrorNotFound
}

// ToDomainError translates a lookup failure for transport layers.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	switch GetCategory(err) {
	case ErrorNotFound:
		return dErrors.Wrap(err, dErrors.CodeNotFound, "no record for lookup key")
	case ErrorBadData:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid lookup input")
	case ErrorTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, "lookup timed out")
	case ErrorProviderOutage, ErrorRateLimited, ErrorAuthentication, ErrorContractMismatch:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "lookup service unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
	}
}
