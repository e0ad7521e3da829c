package tun_device

import (
	"fmt"
	"time"

	"powertun/application/logging"
)

// OpenPolicy bounds how often opening the control path is attempted.
type OpenPolicy struct {
	Attempts int
	Backoff  time.Duration
	Sleep    func(time.Duration)
}

func NewOpenPolicy(attempts int, backoff time.Duration) OpenPolicy {
	return OpenPolicy{Attempts: attempts, Backoff: backoff, Sleep: time.Sleep}
}

// openWithRetry calls open until it succeeds, returns a non-retryable error,
// or the attempts are used up.
func openWithRetry[T any](
	policy OpenPolicy,
	logger logging.Logger,
	retryable func(error) bool,
	open func() (T, error),
) (T, error) {
	attempts := max(policy.Attempts, 1)
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := open()
		if err == nil {
			return v, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt < attempts {
			logger.Printf("device open attempt %d/%d failed: %v; retrying in %s", attempt, attempts, err, policy.Backoff)
			if policy.Sleep != nil {
				policy.Sleep(policy.Backoff)
			}
		}
	}
	return zero, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
