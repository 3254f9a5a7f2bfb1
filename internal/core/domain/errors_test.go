package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassify tests the retry policy taxonomy
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"auth invalid", ErrAuthInvalid, ClassAuth},
		{"auth expired wrapped", fmt.Errorf("github: %w", ErrAuthExpired), ClassAuth},
		{"refresh failed", ErrTokenRefreshFailed, ClassAuth},
		{"not connected", ErrNotConnected, ClassAuth},
		{"throttled", &ThrottledError{RetryAfter: time.Second}, ClassThrottled},
		{"not found", ErrNotFound, ClassSkip},
		{"forbidden wrapped", fmt.Errorf("channel: %w", ErrForbidden), ClassSkip},
		{"conflict", ErrConflict, ClassSkip},
		{"network", errors.New("connection reset"), ClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

// TestThrottleDelay tests retry-after extraction
func TestThrottleDelay(t *testing.T) {
	err := fmt.Errorf("slack: %w", &ThrottledError{RetryAfter: 30 * time.Second})
	assert.True(t, IsThrottled(err))
	assert.Equal(t, 30*time.Second, ThrottleDelay(err))

	assert.False(t, IsThrottled(errors.New("plain")))
	assert.Equal(t, time.Duration(0), ThrottleDelay(errors.New("plain")))
}

// TestItemError tests item-scoped error wrapping
func TestItemError(t *testing.T) {
	inner := ErrForbidden
	err := &ItemError{Provider: ProviderSlack, Unit: "#general", Err: inner}

	ie, ok := IsItemError(fmt.Errorf("stream: %w", err))
	require.True(t, ok)
	assert.Equal(t, ProviderSlack, ie.Provider)
	assert.Equal(t, "#general", ie.Unit)
	assert.True(t, errors.Is(ie, ErrForbidden))

	_, ok = IsItemError(errors.New("plain"))
	assert.False(t, ok)
}
