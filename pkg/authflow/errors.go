package authflow

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAuthenticationFailed means no strategy produced a valid
	// principal. Deliberately generic: the response never reveals which
	// strategy was attempted or why it failed.
	ErrAuthenticationFailed = errors.New("authflow: authentication failed")

	// ErrRateLimitExceeded is raised before any validation is attempted.
	ErrRateLimitExceeded = errors.New("authflow: rate limit exceeded")

	// ErrNoValidator means the resolver was built without any strategy.
	ErrNoValidator = errors.New("authflow: no validator configured")
)

// RateLimitError carries retry-after information alongside
// ErrRateLimitExceeded; match it with errors.As.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("authflow: rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}
