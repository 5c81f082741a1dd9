package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docspace/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how transient failures are retried
type Policy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy retries up to three times starting at 50ms
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Classifier reports whether an error is worth retrying
type Classifier func(err error) bool

// IsTransient is the default classifier: errors wrapping domain.ErrTransient
func IsTransient(err error) bool {
	return errors.Is(err, domain.ErrTransient)
}

// Do runs op until it succeeds or fails with a non-transient error. It also
// stops when retries run out or ctx is done. A transient error that survives every retry
// is returned wrapped with domain.ErrTransient.
func Do(ctx context.Context, policy Policy, classify Classifier, logger *slog.Logger, op func(ctx context.Context) error) error {
	if classify == nil {
		classify = IsTransient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = policy.InitialInterval
	if policy.MaxInterval > 0 {
		exp.MaxInterval = policy.MaxInterval
	}
	exp.MaxElapsedTime = 0 // bounded by MaxRetries instead

	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)

	attempts := 0
	var lastErr error
	err := backoff.RetryNotify(func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classify(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		if logger != nil {
			logger.Warn("retrying after transient failure",
				"attempt", attempts,
				"wait", wait,
				"error", err,
			)
		}
	})
	if err == nil {
		return nil
	}

	if lastErr != nil && classify(lastErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if errors.Is(lastErr, domain.ErrTransient) {
			return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
		}
		return fmt.Errorf("%w: giving up after %d attempts: %w", domain.ErrTransient, attempts, lastErr)
	}
	return err
}
