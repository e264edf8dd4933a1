// Package resilience wraps the retry and circuit-breaker policies applied
// to outbound calls (answer provider, fact store, escalation webhook).
package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"graphrag-chatbot-be/internal/pkg/logger"
)

type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Permanent marks an error as non-retryable (4xx-style failures).
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry runs op with exponential backoff until it succeeds, returns a
// permanent error, the attempt budget is spent, or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, log logger.ILogger, name string, op func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialInterval
	exp.MaxInterval = cfg.MaxInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryNotify(op, policy, func(err error, next time.Duration) {
		attempt++
		if log != nil {
			log.Warn("RESILIENCE", "Operation failed, retrying", map[string]interface{}{
				"operation": name,
				"attempt":   attempt,
				"next_in":   next.String(),
				"error":     err.Error(),
			})
		}
	})
}
