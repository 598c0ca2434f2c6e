package translation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker around a provider
type BreakerSettings struct {
	MaxFailures uint32        // Consecutive failures that open the circuit
	OpenTimeout time.Duration // How long the circuit stays open
}

// DefaultBreakerSettings returns the breaker settings used by NewProvider
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// BreakerPort fails fast once a provider keeps failing. Rate-limit and
// language-recognition errors are expected answers and never trip it.
type BreakerPort struct {
	port Port
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerPort wraps port with a circuit breaker
func NewBreakerPort(port Port, settings BreakerSettings) *BreakerPort {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = DefaultBreakerSettings().MaxFailures
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    port.Name(),
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsRateLimited(err) || IsLanguageRecognition(err) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("provider", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &BreakerPort{port: port, cb: cb}
}

// Detect calls the wrapped provider unless the circuit is open
func (b *BreakerPort) Detect(ctx context.Context, text string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.port.Detect(ctx, text)
	})
	if err != nil {
		return "", b.wrap(err)
	}
	return out.(string), nil
}

// Translate calls the wrapped provider unless the circuit is open
func (b *BreakerPort) Translate(ctx context.Context, text, source, target string) (Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.port.Translate(ctx, text, source, target)
	})
	if err != nil {
		return Result{}, b.wrap(err)
	}
	return out.(Result), nil
}

// Name returns the wrapped provider name
func (b *BreakerPort) Name() string {
	return b.port.Name()
}

func (b *BreakerPort) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &APIError{
			Kind:     KindOther,
			Provider: b.port.Name(),
			Message:  "provider unavailable, too many consecutive failures",
			Err:      err,
		}
	}
	return err
}
