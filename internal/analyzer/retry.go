package analyzer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/chabro2633/diary-korean/internal/logging"
)

// RetryConfig controls retry behavior for analyzer calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig retries twice with exponential backoff.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
}

// ErrPermanent marks a failure that retrying cannot fix, such as an
// unparseable response.
var ErrPermanent = errors.New("permanent analyzer failure")

// RetryDo retries fn up to MaxRetries times with exponential backoff.
// Errors wrapping ErrPermanent return immediately, as does cancellation of ctx.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	log := logging.Component("analyzer")
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, ErrPermanent) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			log.Debug().Int("attempt", attempt+1).Dur("wait", wait).Err(err).Msg("retrying")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}
