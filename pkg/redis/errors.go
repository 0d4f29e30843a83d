package redis

import "errors"

var (
	// ErrInvalidConnectionURL indicates the connection string failed to parse.
	ErrInvalidConnectionURL = errors.New("redis: invalid connection URL")

	// ErrNotReady indicates the server did not become reachable in time.
	ErrNotReady = errors.New("redis: server not ready")

	// ErrHealthcheckFailed indicates a failed PING probe.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
