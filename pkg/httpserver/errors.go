package httpserver

import "errors"

var (
	ErrNilHandler = errors.New("httpserver: nil handler")
	ErrStart      = errors.New("httpserver: failed to start")
	ErrShutdown   = errors.New("httpserver: failed to shut down")
)
