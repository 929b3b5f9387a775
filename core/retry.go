package core

import (
	"context"
	"time"
)

type retryPolicy struct {
	maxRetries int
	wait       time.Duration
}

func (p retryPolicy) attempts() int {
	if p.maxRetries < 1 {
		return 1
	}
	return p.maxRetries
}

type execFunc[P, E any] func(ctx context.Context, prepResult P) (E, error)

type fallbackFunc[P, E any] func(ctx context.Context, prepResult P, err error) (E, error)

// fallbackFor returns the node's ExecFallback, or one that rethrows.
func fallbackFor[P, E any](node any) fallbackFunc[P, E] {
	if fb, ok := node.(Fallback[P, E]); ok {
		return fb.ExecFallback
	}
	return func(_ context.Context, _ P, err error) (E, error) {
		var zero E
		return zero, err
	}
}

// executeWithRetry runs exec up to policy.attempts() times, waiting
// policy.wait between failed attempts. The error of the final attempt goes
// to fallback exactly once.
func executeWithRetry[P, E any](ctx context.Context, name string, policy retryPolicy, prepResult P, exec execFunc[P, E], fallback fallbackFunc[P, E]) (E, error) {
	var zero E
	attempts := policy.attempts()

	for attempt := 1; ; attempt++ {
		execResult, err := exec(ctx, prepResult)
		if err == nil {
			return execResult, nil
		}

		if attempt >= attempts {
			notify(ctx, Event{Type: EventNodeFallback, Node: name, Attempt: attempt, Err: err})
			execResult, err = fallback(ctx, prepResult, err)
			if err != nil {
				return zero, wrapPhase(name, PhaseExec, attempt, err)
			}
			return execResult, nil
		}

		notify(ctx, Event{Type: EventNodeRetry, Node: name, Attempt: attempt, Err: err})
		if err := sleep(ctx, policy.wait); err != nil {
			return zero, wrapPhase(name, PhaseExec, attempt, err)
		}
	}
}

// sleep blocks for d or until ctx is done.
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
