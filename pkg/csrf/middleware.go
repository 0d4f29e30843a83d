package csrf

import (
	"net/http"

	"github.com/nexsuite/authcore/pkg/clientip"
)

// TokenSource returns the stored anti-forgery token for the request,
// typically from the authenticated session principal in the context.
// ok is false when the request has no session-backed token to check
// against (e.g. bearer token clients, which are immune to CSRF).
type TokenSource func(r *http.Request) (token string, ok bool)

// Reporter receives validation failures. Calls must never block.
type Reporter interface {
	SecurityViolation(violationType, severity, sessionID, clientIP, description string)
}

type noopReporter struct{}

func (noopReporter) SecurityViolation(string, string, string, string, string) {}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middleware)

// WithReporter wires the security monitor.
func WithReporter(r Reporter) MiddlewareOption {
	return func(mw *middleware) { mw.reporter = r }
}

type middleware struct {
	source   TokenSource
	reporter Reporter
}

// Middleware enforces anti-forgery tokens on state-changing requests.
// Safe (idempotent) methods pass through. Requests without a
// session-backed token pass through as well: CSRF rides on ambient
// cookie credentials, which such requests do not use.
func Middleware(source TokenSource, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	mw := &middleware{
		source:   source,
		reporter: noopReporter{},
	}
	for _, opt := range opts {
		opt(mw)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			stored, ok := mw.source(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if err := Validate(stored, TokenFromRequest(r)); err != nil {
				mw.reporter.SecurityViolation("csrf_failure", "medium", "", clientip.FromRequest(r), "anti-forgery token missing or mismatched")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
