package breakeven

import (
	"log"
	"time"
)

// Defaults for retrying transient market data failures.
const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// withRetry calls fn up to attempts times, sleeping delay between attempts,
// and returns the last error once the attempts are exhausted.
//
// It is independent of what fn does: network errors, rate limits and empty
// responses all look the same here, a non-nil error worth another try.
func withRetry(attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Printf("retrying after error (attempt %d/%d): %v", i+1, attempts, err)
			time.Sleep(delay)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
