package usecase

import (
	"context"
	"time"
)

// BackoffFunc maps a zero-based attempt number to the delay before the next
// attempt.
type BackoffFunc func(attempt int) time.Duration

// RetryPolicy bounds how often a unit of work is re-run and how long to wait
// between runs. It is independent of any queue technology: the worker runtime
// applies the same policy via delayed re-enqueue, tests apply it in-process.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

func FixedBackoff(delay time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return delay
	}
}

// ExponentialBackoff doubles the base delay per attempt: base, 2*base, 4*base.
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		// Guard the shift; attempts beyond 30 doublings are capped.
		if attempt > 30 {
			attempt = 30
		}
		return base << uint(attempt)
	}
}

// Sleeper abstracts the delay between attempts so tests can observe requested
// delays without waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

// RunWithRetry runs fn until it reports success or a permanent failure, or the
// policy's attempt budget is spent. The attempt number passed to fn is
// zero-based. The final Outcome is returned to the caller unchanged.
func RunWithRetry(ctx context.Context, policy RetryPolicy, sleep Sleeper, fn func(attempt int) Outcome) Outcome {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if sleep == nil {
		sleep = SleepWithContext
	}

	var out Outcome
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		out = fn(attempt)
		if out.Kind != OutcomeRetryable {
			return out
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}

		var delay time.Duration
		if policy.Backoff != nil {
			delay = policy.Backoff(attempt)
		}
		if err := sleep(ctx, delay); err != nil {
			return Permanent("cancelled while waiting for retry", err)
		}
	}

	return out
}
