// internal/common/retry/retry.go
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy bounds an exponential backoff loop.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// WithBackoff runs op until it succeeds, the attempts run out or ctx is done.
// The delay doubles after every failure and is capped at MaxDelay when set.
func WithBackoff(ctx context.Context, p Policy, log *zap.Logger, operationName string, op func(context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	var err error
	delay := p.InitialDelay

	for i := 0; i < p.Attempts; i++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		if i == p.Attempts-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Int("maxRetries", p.Attempts),
			zap.Duration("nextRetryIn", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, ctx.Err())
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, p.Attempts, err)
}
