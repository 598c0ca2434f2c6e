package translation

import (
	"context"
	"fmt"
)

// Retrier retries calls that were rejected for exceeding the service rate.
// Retries are immediate: admission is already throttled by the token bucket,
// so this only covers races at the rate boundary.
type Retrier struct {
	// MaxAttempts caps the total number of calls. 0 means unlimited.
	MaxAttempts int
	// OnRetry is called before each retry with the attempt that failed
	OnRetry func(attempt int, err error)
}

// Retry runs op until it succeeds or fails with anything other than a
// rate-limit rejection.
func Retry[T any](ctx context.Context, r Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil || !IsRateLimited(err) {
			return result, err
		}

		if r.MaxAttempts > 0 && attempt >= r.MaxAttempts {
			var zero T
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}

		if r.OnRetry != nil {
			r.OnRetry(attempt, err)
		}
	}
}
