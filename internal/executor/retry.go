package executor

import (
	"context"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/logger"
)

const (
	// DefaultMaxRetries is the retry cap for transient errors.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the initial backoff delay.
	DefaultBaseDelay = time.Second

	// MaxThrottleWaits caps how many provider-declared throttle waits one
	// call will honour before giving up. Throttle waits never consume a
	// retry slot, so an unbounded loop needs its own guard.
	MaxThrottleWaits = 5
)

// Policy controls retry behaviour.
type Policy struct {
	// MaxRetries is how many times a transient failure is retried.
	MaxRetries int

	// BaseDelay is the first backoff delay; each retry doubles it.
	BaseDelay time.Duration
}

// DefaultPolicy returns the standard policy: 3 retries, 1s base delay.
// Total added delay is bounded by BaseDelay × (2^MaxRetries − 1).
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// Retry runs fn, retrying per the error taxonomy. The loop carries
// (attempt, delay) explicitly rather than recursing.
//
//   - Auth errors return immediately.
//   - Skip-class errors (not found, forbidden, conflict) return immediately;
//     the caller counts them, they are not failures worth retrying.
//   - Throttled errors wait exactly the provider-declared delay without
//     consuming a retry, bounded by MaxThrottleWaits.
//   - Transient errors back off BaseDelay × 2^attempt up to MaxRetries.
func Retry(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultBaseDelay
	}

	attempt := 0
	delay := policy.BaseDelay
	throttleWaits := 0

	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		switch domain.Classify(err) {
		case domain.ClassAuth, domain.ClassSkip:
			return err

		case domain.ClassThrottled:
			if throttleWaits >= MaxThrottleWaits {
				return err
			}
			throttleWaits++
			wait := domain.ThrottleDelay(err)
			logger.Warn("Throttled, waiting %s (%d/%d)", wait, throttleWaits, MaxThrottleWaits)
			if sleepErr := sleep(ctx, wait); sleepErr != nil {
				return sleepErr
			}

		case domain.ClassTransient:
			if attempt >= policy.MaxRetries {
				return err
			}
			logger.Debug("Transient error, retry %d/%d in %s: %v",
				attempt+1, policy.MaxRetries, delay, err)
			if sleepErr := sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
			attempt++
			delay *= 2
		}
	}
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
