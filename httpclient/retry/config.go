// Package retry implements the resilient HTTP layer's backoff-with-jitter
// retry engine: exponential delay scheduling, Retry-After honoring, and
// status/error classification.
package retry

import "time"

// Config tunes the retry engine's attempt budget, delay schedule, and
// classification of what counts as retryable.
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool
	RetryOnStatus   map[int]bool
	RetryOnErrors   func(err error) bool
}

// DefaultConfig returns the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    1 * time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          true,
		RetryOnStatus:   map[int]bool{429: true, 500: true, 502: true, 503: true, 504: true},
		RetryOnErrors:   DefaultRetryableError,
	}
}
