package authflow

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nexsuite/authcore/pkg/session"
)

// MiddlewareOption configures the HTTP middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	loginURL      string
	redirectParam string
}

// WithLoginURL sets where unauthenticated browser clients are sent.
func WithLoginURL(u string) MiddlewareOption {
	return func(cfg *middlewareConfig) { cfg.loginURL = u }
}

// WithRedirectParam sets the query parameter carrying the original
// destination on the login redirect.
func WithRedirectParam(name string) MiddlewareOption {
	return func(cfg *middlewareConfig) { cfg.redirectParam = name }
}

// Middleware authenticates every request through the resolver and
// places the Principal in the request context. Browser clients are
// redirected to the login page with their destination preserved; API
// clients get JSON errors. Rate-limited requests get 429 with a
// Retry-After header regardless of client kind.
func Middleware(resolver *Resolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		loginURL:      "/login",
		redirectParam: "redirect",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.Resolve(r.Context(), w, r)
			if err != nil {
				respondError(w, r, cfg, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func respondError(w http.ResponseWriter, r *http.Request, cfg middlewareConfig, err error) {
	var rateErr *RateLimitError
	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rateErr)))
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")

	case errors.Is(err, ErrAuthenticationFailed):
		if wantsHTML(r) {
			redirectToLogin(w, r, cfg)
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "unauthenticated")

	case errors.Is(err, session.ErrStoreUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "temporarily unavailable")

	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, cfg middlewareConfig) {
	dest := r.URL.Path
	if r.URL.RawQuery != "" {
		dest += "?" + r.URL.RawQuery
	}

	target := cfg.loginURL + "?" + url.Values{cfg.redirectParam: {dest}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func retryAfterSeconds(err *RateLimitError) int {
	secs := int(math.Ceil(err.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
