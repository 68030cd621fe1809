package poll

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultInterval is the pause between reload attempts when the caller
	// does not override it.
	DefaultInterval = 200 * time.Millisecond
	// DefaultTimeout bounds a poll when the caller supplies no budget of
	// its own. Operation variants generally pass their own default.
	DefaultTimeout = 20 * time.Second
)

// ReloadFunc fetches a fresh snapshot of the operation being polled.
// Implementations typically issue a GET for the resource and, when the
// operation carries sub-items, reconcile them with local state before
// returning.
type ReloadFunc[T any] func(ctx context.Context) (T, error)

// TimeoutError reports that an operation did not reach a terminal state
// within its budget. It is a reported, non-fatal condition: the snapshot
// returned alongside it is the last one observed, so partial progress
// such as locally signed sub-items remains inspectable.
type TimeoutError struct {
	// Kind names the kind of operation that timed out, e.g. "transfer".
	Kind string
	// Timeout is the budget that was exceeded.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("poll: %s did not reach a terminal state within %s", e.Kind, e.Timeout)
}

type config struct {
	interval time.Duration
	timeout  time.Duration
}

// Option configures a single Until invocation.
type Option func(*config)

// WithInterval sets the pause between reload attempts.
func WithInterval(interval time.Duration) Option {
	return func(c *config) {
		c.interval = interval
	}
}

// WithTimeout sets the total budget for reaching a terminal state.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// Until drives an asynchronously completed operation to a terminal state.
//
// If the initial snapshot is already terminal it is returned immediately,
// with no reload and no delay. Otherwise Until calls reload, checks the
// fresh snapshot against the terminal predicate, and sleeps for the
// configured interval between attempts. The loop gives up with a
// *TimeoutError once the next attempt would land beyond the budget, so a
// timeout smaller than the interval allows exactly one reload.
//
// The last observed snapshot is always returned, including alongside a
// timeout or reload error. A reload error aborts the wait and propagates
// unchanged; Until never retries the reload call itself beyond the next
// poll interval. Cancelling the context returns ctx.Err().
//
// Each invocation runs in the calling goroutine and holds no shared state,
// so concurrent waits on independent operations need no coordination. The
// operation snapshot itself is owned by the caller for the duration of the
// wait.
func Until[T any](ctx context.Context, initial T, kind string, terminal func(T) bool, reload ReloadFunc[T], opts ...Option) (T, error) {
	cfg := config{
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.interval <= 0 {
		cfg.interval = DefaultInterval
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}

	current := initial
	if terminal(current) {
		return current, nil
	}

	start := time.Now()
	for {
		fresh, err := reload(ctx)
		if err != nil {
			return current, err
		}
		current = fresh

		if terminal(current) {
			return current, nil
		}

		if time.Since(start)+cfg.interval > cfg.timeout {
			return current, &TimeoutError{Kind: kind, Timeout: cfg.timeout}
		}

		timer := time.NewTimer(cfg.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return current, ctx.Err()
		case <-timer.C:
		}
	}
}
