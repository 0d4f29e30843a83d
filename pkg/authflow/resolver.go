package authflow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nexsuite/authcore/pkg/clientip"
	"github.com/nexsuite/authcore/pkg/ratelimiter"
	"github.com/nexsuite/authcore/pkg/session"
)

const bearerPrefix = "Bearer "

// Resolver produces exactly one Principal per request from two
// independent strategies: bearer tokens and browser sessions. A valid
// bearer token always wins; a failed one falls through to the session
// so a hybrid client with a stale token and a live session stays
// signed in. The two strategies never touch each other's state.
type Resolver struct {
	tokens     TokenValidator
	sessions   SessionValidator
	limiter    ratelimiter.Limiter
	limiterKey ratelimiter.KeyFunc
	auditor    Auditor
	logger     *slog.Logger
	cookieName string
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithRateLimiter wires the limiter consulted before any validation.
func WithRateLimiter(limiter ratelimiter.Limiter, key ratelimiter.KeyFunc) ResolverOption {
	return func(res *Resolver) {
		res.limiter = limiter
		res.limiterKey = key
	}
}

// WithAuditor wires the security monitor.
func WithAuditor(a Auditor) ResolverOption {
	return func(res *Resolver) { res.auditor = a }
}

// WithResolverLogger sets the structured logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(res *Resolver) { res.logger = logger }
}

// WithSessionCookieName overrides the cookie checked by the
// no-credentials fast path. Must match the session manager's config.
func WithSessionCookieName(name string) ResolverOption {
	return func(res *Resolver) { res.cookieName = name }
}

// NewResolver creates a resolver over the given strategies. Either
// validator may be nil to disable that strategy. A session validator
// that exposes its config, like *session.Manager, supplies the cookie
// name for the fast path; WithSessionCookieName overrides it.
func NewResolver(tokens TokenValidator, sessions SessionValidator, opts ...ResolverOption) *Resolver {
	res := &Resolver{
		tokens:     tokens,
		sessions:   sessions,
		auditor:    noopAuditor{},
		logger:     slog.New(slog.DiscardHandler),
		cookieName: session.DefaultConfig().CookieName,
	}
	if configured, ok := sessions.(interface{ Config() session.Config }); ok {
		res.cookieName = configured.Config().CookieName
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Resolve authenticates the request. When w is non-nil a successful
// session validation refreshes the client's cookies through it.
//
// Order: rate limit, then bearer token, then session. When neither a
// token header nor a session cookie is present, no validation call is
// made at all so anonymous traffic costs no cache round-trips.
func (res *Resolver) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (Principal, error) {
	if err := res.checkRateLimit(ctx, r); err != nil {
		return Principal{}, err
	}

	if res.tokens == nil && res.sessions == nil {
		return Principal{}, ErrNoValidator
	}

	token := bearerToken(r)
	hasCookie := res.hasSessionCookie(r)

	if token == "" && !hasCookie {
		return Principal{}, ErrAuthenticationFailed
	}

	if token != "" && res.tokens != nil {
		start := time.Now()
		identity, err := res.tokens.ValidateToken(ctx, token)
		res.auditor.AuthAttempt(string(MethodToken), err == nil, time.Since(start))

		if err == nil {
			return Principal{
				Method:   MethodToken,
				UserID:   identity.UserID,
				Username: identity.Username,
			}, nil
		}
		// Fall through: an expired or malformed token must not lock out
		// a caller who also holds a valid session.
		res.logger.DebugContext(ctx, "bearer token rejected, trying session", slog.Any("error", err))
	}

	if res.sessions == nil {
		return Principal{}, ErrAuthenticationFailed
	}

	start := time.Now()
	sess, err := res.sessions.Validate(ctx, w, r)
	res.auditor.AuthAttempt(string(MethodSession), err == nil, time.Since(start))

	if err != nil {
		// A compromised session is reported by the manager; the caller
		// sees a plain authentication failure either way.
		if errors.Is(err, session.ErrStoreUnavailable) {
			return Principal{}, err
		}
		return Principal{}, ErrAuthenticationFailed
	}

	return Principal{
		Method:    MethodSession,
		UserID:    sess.UserID,
		Username:  sess.Username,
		CSRFToken: sess.CSRFToken,
	}, nil
}

func (res *Resolver) checkRateLimit(ctx context.Context, r *http.Request) error {
	if res.limiter == nil {
		return nil
	}

	key := res.limiterKey(r)
	result, err := res.limiter.Allow(ctx, key)
	if err != nil {
		// The limiter is advisory infrastructure; its failure must not
		// take authentication down with it.
		res.logger.WarnContext(ctx, "rate limiter unavailable", slog.Any("error", err))
		return nil
	}

	if !result.Allowed() {
		res.auditor.SecurityViolation("rate_limit_exceeded", "medium", "", clientip.FromRequest(r), "authentication rate limit exceeded")
		return &RateLimitError{RetryAfter: result.RetryAfter()}
	}
	return nil
}

func (res *Resolver) hasSessionCookie(r *http.Request) bool {
	_, err := r.Cookie(res.cookieName)
	return err == nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
