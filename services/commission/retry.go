package commission

import (
	"context"
	"time"
)

// RetryPolicy is a bounded-retry value with exponential backoff. It returns
// a typed outcome instead of driving control flow through errors: callers
// inspect Outcome.Err once, after the policy has done all the retrying.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches the alert-persistence contract: three attempts,
// doubling backoff.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    3,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// Outcome reports how a retried operation ended. Err is nil on success and
// holds the last attempt's error once the policy is exhausted.
type Outcome struct {
	Attempts int
	Err      error
}

// Exhausted reports whether every attempt failed.
func (o Outcome) Exhausted() bool { return o.Err != nil }

// Do runs op until it succeeds, the attempts run out, or the context ends.
// The attempt number (1-based) is passed to op so it can stamp it on
// whatever it persists.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) Outcome {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	backoff := p.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return Outcome{Attempts: attempt}
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return Outcome{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
	return Outcome{Attempts: maxAttempts, Err: lastErr}
}
