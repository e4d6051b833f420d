package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies an external text-generation failure by its message
// signature. The category decides whether a call is retried and how its
// backoff grows.
type Category int

const (
	// Generic is any failure with no recognized signature. Retryable.
	Generic Category = iota
	// RateLimit is a provider-side 429. Retryable with a steeper backoff.
	RateLimit
	// Auth is a credentials failure. Not retryable; needs human intervention.
	Auth
	// NotFound means the requested model is unknown or unavailable. Not retryable.
	NotFound
	// PayloadTooLarge is a transport-level 413. Not retryable: it signals
	// that the batch must shrink, not that the call should be repeated.
	PayloadTooLarge
	// Network covers timeouts and connection failures. Retryable.
	Network
)

// String returns the label used in surfaced error messages.
func (c Category) String() string {
	switch c {
	case RateLimit:
		return "rate limit exceeded"
	case Auth:
		return "authentication error"
	case NotFound:
		return "model availability error"
	case PayloadTooLarge:
		return "payload too large error"
	case Network:
		return "network error"
	default:
		return "api error"
	}
}

// Retryable reports whether a failure of this category may be retried.
func (c Category) Retryable() bool {
	switch c {
	case Auth, NotFound, PayloadTooLarge:
		return false
	default:
		return true
	}
}

// APIError is a categorized external-call failure.
type APIError struct {
	Category Category
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Classify inspects an error message for known failure signatures and
// returns its category. Unrecognized failures are Generic.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Category
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "429", "rate limit", "too many requests"):
		return RateLimit
	case containsAny(msg, "401", "unauthorized", "invalid api key"):
		return Auth
	case containsAny(msg, "404", "model not found", "not available"):
		return NotFound
	case containsAny(msg, "413", "too large", "entity too large"):
		return PayloadTooLarge
	case containsAny(msg, "timeout", "connection", "network"):
		return Network
	default:
		return Generic
	}
}

// IsPayloadTooLarge reports whether err carries a payload-too-large
// signature, the structural signal for the hierarchical merger to shrink
// its batches.
func IsPayloadTooLarge(err error) bool {
	return err != nil && Classify(err) == PayloadTooLarge
}

func containsAny(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
