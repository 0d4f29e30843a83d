package session

import "errors"

var (
	// ErrNoSession indicates no valid session could be resolved for the
	// request. This is the expected outcome for anonymous requests, not
	// an exceptional condition.
	ErrNoSession = errors.New("session: no valid session")

	// ErrNotFound is returned by stores when a record is absent.
	ErrNotFound = errors.New("session: not found")

	// ErrCompromised indicates a hijack-detection mismatch. The session
	// is destroyed; callers must surface this identically to a plain
	// authentication failure.
	ErrCompromised = errors.New("session: compromised")

	// ErrStoreUnavailable indicates the cache could not confirm the
	// session. Policy is fail closed: treat as unauthenticated.
	ErrStoreUnavailable = errors.New("session: store unavailable")

	// ErrInvalidRecord indicates a corrupt cache record. Such records
	// are purged and treated as absent.
	ErrInvalidRecord = errors.New("session: invalid record")

	// ErrTokenGeneration indicates the random source failed.
	ErrTokenGeneration = errors.New("session: token generation failed")

	// ErrMissingIP is returned when creating a session without a client
	// address, which would make hijack detection meaningless.
	ErrMissingIP = errors.New("session: client IP is required")
)
