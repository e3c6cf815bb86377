package indexer

import (
	"context"
	"time"
)

const defaultRetryBackoff = 100 * time.Millisecond

// retryPolicy retries a call with doubling delays until it succeeds, the attempts
// run out or ctx ends.
type retryPolicy struct {
	maxRetries int
	backoff    time.Duration
}

func newRetryPolicy(maxRetries int, backoff time.Duration) retryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return retryPolicy{maxRetries: maxRetries, backoff: backoff}
}

func (p retryPolicy) do(ctx context.Context, fn func(context.Context) error) error {
	delay := p.backoff
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
