package queue

import (
	"strings"
	"time"
)

// RetryManager decides whether a failed task gets another attempt. Delay
// between attempts is fixed, not exponential: notification sends wait the
// same interval (60s by default) after every failure.
type RetryManager struct {
	maxRetries int
	delay      time.Duration
}

// NewRetryManager creates a new RetryManager
func NewRetryManager(maxRetries int, delay time.Duration) *RetryManager {
	return &RetryManager{
		maxRetries: maxRetries,
		delay:      delay,
	}
}

// ShouldRetry determines if a task should be retried and returns the delay
func (r *RetryManager) ShouldRetry(task *Task, err error) (bool, time.Duration) {
	if task.Attempts >= task.MaxRetries {
		return false, 0
	}

	if !r.isRetryableError(err) {
		return false, 0
	}

	return true, r.delay
}

// isRetryableError determines if an error is retryable. Missing entities and
// malformed payloads will not fix themselves on a second attempt.
func (r *RetryManager) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	nonRetryableErrors := []string{
		"invalid",
		"not found",
		"validation failed",
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range nonRetryableErrors {
		if strings.Contains(errStr, pattern) {
			return false
		}
	}

	return true
}

// MaxRetries returns the configured retry ceiling for new tasks.
func (r *RetryManager) MaxRetries() int {
	return r.maxRetries
}

// Delay returns the fixed interval between attempts.
func (r *RetryManager) Delay() time.Duration {
	return r.delay
}
