package ratelimiter

import "errors"

var (
	// ErrInvalidConfig indicates the bucket configuration is unusable.
	ErrInvalidConfig = errors.New("ratelimiter: invalid configuration")

	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")
)
