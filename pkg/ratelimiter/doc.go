// Package ratelimiter implements a token bucket rate limiter used to
// throttle authentication attempts before any credential validation runs.
//
// A Bucket coordinates against a pluggable Store; an in-memory store with
// background reclamation of stale buckets ships with the package. Keys are
// derived from requests with composable KeyFuncs, typically client IP plus
// endpoint so one address cannot amplify credential stuffing across the
// login surface:
//
//	store := ratelimiter.NewMemoryStore()
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//	    Capacity:       10,
//	    RefillRate:     5,
//	    RefillInterval: time.Minute,
//	})
//	key := ratelimiter.Composite(ratelimiter.ByClientIP, ratelimiter.ByEndpoint)
package ratelimiter
