// Package httpserver runs an HTTP server tied to a context, shutting
// down gracefully on cancellation. The service uses it to expose the
// monitor's read API to operational tooling.
package httpserver
