// Package executor bounds and retries outbound provider calls.
//
// All provider API calls issued during a sync go through an Executor, which
// enforces a fixed concurrency ceiling, and through Retry, which applies the
// backoff policy. Provider-specific rate limiters (e.g. the GitHub header
// tracker) sit below this layer inside the connectors.
package executor

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultPoolSize is the default number of concurrent outbound calls.
// External APIs here document per-second ceilings; five in-flight calls
// keeps well under all of them.
const DefaultPoolSize = 5

// Executor bounds concurrent provider calls with a fixed slot pool and an
// optional proactive rate limit across all calls.
type Executor struct {
	slots   chan struct{}
	limiter *rate.Limiter
}

// New creates an executor with the given pool size. Sizes below one fall
// back to DefaultPoolSize.
func New(size int) *Executor {
	if size < 1 {
		size = DefaultPoolSize
	}
	return &Executor{
		slots: make(chan struct{}, size),
	}
}

// WithRateLimit sets a proactive requests-per-second ceiling shared by all
// calls through this executor. Burst is the pool size.
func (e *Executor) WithRateLimit(perSecond float64) *Executor {
	if perSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(perSecond), cap(e.slots))
	}
	return e
}

// Acquire blocks until a slot is free or the context is cancelled.
func (e *Executor) Acquire(ctx context.Context) error {
	select {
	case e.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (e *Executor) Release() {
	<-e.slots
}

// Do runs fn while holding a slot, waiting on the proactive limiter first.
func (e *Executor) Do(ctx context.Context, fn func(context.Context) error) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := e.Acquire(ctx); err != nil {
		return err
	}
	defer e.Release()
	return fn(ctx)
}

// Size returns the pool size.
func (e *Executor) Size() int {
	return cap(e.slots)
}
