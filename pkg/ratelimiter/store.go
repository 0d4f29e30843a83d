package ratelimiter

import (
	"context"
	"time"
)

// Store is the persistence interface for bucket state.
type Store interface {
	// Consume attempts to take tokens from the bucket identified by key.
	// A negative remaining count means the request must be denied.
	Consume(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the bucket state for the key.
	Reset(ctx context.Context, key string) error
}
