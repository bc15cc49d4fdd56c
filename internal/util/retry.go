// ABOUTME: Retry utilities for external API calls with exponential backoff
// ABOUTME: Shared by the arbiter client and the NLU agent client
package util

import (
	"math/rand/v2"
	"time"
)

// Backoff returns exponential backoff with jitter for the given attempt.
// Base delay doubles each attempt, capped at 30 seconds, with random
// jitter in the range -25% to +25%.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
