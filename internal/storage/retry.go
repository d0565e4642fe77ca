package storage

import (
	"context"
	"strings"
	"time"
)

// Default retry settings for journal writes
const (
	DefaultWriteRetries = 5
	initialBackoff      = 10 * time.Millisecond
	maxBackoff          = 500 * time.Millisecond
	backoffMultiplier   = 2.0
)

// RetryConfig configures exponential backoff for writes that hit a locked
// database file
type RetryConfig struct {
	MaxRetries int           // Maximum number of attempts
	BaseDelay  time.Duration // Initial delay between attempts
	MaxDelay   time.Duration // Maximum delay between attempts
	Multiplier float64       // Exponential backoff multiplier
}

// DefaultRetryConfig returns the retry settings NewSQLiteJournal uses
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultWriteRetries,
		BaseDelay:  initialBackoff,
		MaxDelay:   maxBackoff,
		Multiplier: backoffMultiplier,
	}
}

// isBusy reports whether err is SQLite refusing a write because another
// connection holds the lock. The driver's typed error code is checked first;
// the message check covers errors that were flattened to text on the way up.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	if driverBusy(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}

// retryBusy runs fn until it succeeds, fails with a non-busy error, or the
// attempts run out. Context cancellation stops the loop immediately.
func retryBusy(ctx context.Context, config RetryConfig, fn func() error) error {
	attempts := config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := config.BaseDelay

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn()
		if !isBusy(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * config.Multiplier)
				if backoff > config.MaxDelay {
					backoff = config.MaxDelay
				}
			}
		}
	}
	return lastErr
}
