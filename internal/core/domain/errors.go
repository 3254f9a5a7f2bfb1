package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConnected indicates no active integration exists for the
	// owner and provider. Surfaced to callers as "integration not
	// connected"; re-authorisation is required.
	ErrNotConnected = errors.New("integration not connected")

	// Authentication errors. Non-retryable: a sync for the affected
	// provider aborts immediately.

	// ErrAuthInvalid indicates the credential is invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrAuthExpired indicates the credential expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Expected steady-state noise. Skipped, counted, never retried.

	// ErrForbidden indicates access to a resource is denied.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a conflicting concurrent change.
	ErrConflict = errors.New("conflict")
)

// ThrottledError is a provider-declared rate limit signal. The executor
// waits exactly RetryAfter before the next attempt instead of applying the
// default backoff, and the wait does not consume a retry slot.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// ItemError wraps a non-fatal, item- or unit-scoped failure inside a fetch
// stream (one conversation, one repository). It is aggregated into the sync
// result and never fails the stream.
type ItemError struct {
	Provider ProviderType
	Unit     string // repo name, channel name, ticket key...
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Unit, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// ErrorClass partitions errors for the retry policy.
type ErrorClass int

// Error classes, from most to least severe.
const (
	// ClassAuth aborts the provider's sync immediately.
	ClassAuth ErrorClass = iota

	// ClassThrottled waits the provider-declared delay, then retries.
	ClassThrottled

	// ClassSkip is expected noise (not found, forbidden, conflict):
	// counted and skipped without retry.
	ClassSkip

	// ClassTransient is retried with exponential backoff up to a cap.
	ClassTransient
)

// Classify maps an error onto the retry policy taxonomy. Unknown errors are
// treated as transient.
func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrAuthInvalid),
		errors.Is(err, ErrAuthExpired),
		errors.Is(err, ErrTokenRefreshFailed),
		errors.Is(err, ErrNotConnected):
		return ClassAuth
	case IsThrottled(err):
		return ClassThrottled
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrConflict):
		return ClassSkip
	default:
		return ClassTransient
	}
}

// IsThrottled reports whether err carries a provider throttle signal and
// returns the declared delay.
func IsThrottled(err error) bool {
	var te *ThrottledError
	return errors.As(err, &te)
}

// ThrottleDelay extracts the provider-declared delay, or 0.
func ThrottleDelay(err error) time.Duration {
	var te *ThrottledError
	if errors.As(err, &te) {
		return te.RetryAfter
	}
	return 0
}

// IsItemError reports whether err is a non-fatal item-scoped failure.
func IsItemError(err error) (*ItemError, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
