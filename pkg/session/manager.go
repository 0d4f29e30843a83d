package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nexsuite/authcore/pkg/clientip"
	"github.com/nexsuite/authcore/pkg/cookie"
	"github.com/nexsuite/authcore/pkg/csrf"
	"github.com/nexsuite/authcore/pkg/fingerprint"
)

// Reporter receives security observations from the manager. Calls must
// never block the request path; the monitor's implementation enqueues
// into a buffered channel and drops on overflow.
type Reporter interface {
	SecurityViolation(violationType, severity, sessionID, clientIP, description string)
}

type noopReporter struct{}

func (noopReporter) SecurityViolation(string, string, string, string, string) {}

// Manager is the sole authority for session existence, validity and
// destruction.
type Manager struct {
	store    Store
	cookies  *cookie.Manager
	config   Config
	reporter Reporter
	logger   *slog.Logger
	locks    keyedMutex
}

// Option configures the Manager.
type Option func(*Manager)

// WithConfig sets custom configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// WithReporter wires the security monitor.
func WithReporter(r Reporter) Option {
	return func(m *Manager) { m.reporter = r }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager backed by the given store and
// cookie manager.
func NewManager(store Store, cookies *cookie.Manager, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		cookies:  cookies,
		config:   DefaultConfig(),
		reporter: noopReporter{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create issues a new session for an identity already authenticated by a
// prior step. It enforces the per-user session cap (evicting the oldest
// session when at the cap), writes the record, and sets the session and
// CSRF cookies on the response. The count check and eviction run under a
// per-user critical section so concurrent logins cannot exceed the cap.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, identity Identity) (*Session, error) {
	ip := clientip.FromRequest(r)
	if ip == "" {
		return nil, ErrMissingIP
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	csrfToken, err := csrf.Generate()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	sess := &Session{
		ID:          id,
		UserID:      identity.UserID,
		Username:    identity.Username,
		IP:          ip,
		UserAgent:   r.UserAgent(),
		Fingerprint: fingerprint.Generate(r),
		CSRFToken:   csrfToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.config.TTL),
	}

	unlock := m.locks.lock(identity.UserID.String())
	defer unlock()

	if err := m.enforceSessionCap(ctx, identity.UserID); err != nil {
		return nil, err
	}

	opCtx, cancel := m.opCtx(ctx)
	defer cancel()
	if err := m.store.Save(opCtx, sess); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if err := m.setCookies(w, sess); err != nil {
		// Roll back so a session the client never received does not
		// count against the user's cap.
		m.deleteQuietly(ctx, sess)
		return nil, err
	}

	return sess, nil
}

// Validate resolves the request's session cookie into a live session.
// Returns ErrNoSession when the request simply has no valid session and
// ErrCompromised when hijack detection destroyed it. Any inability to
// confirm the session against the store fails closed.
//
// On success the sliding expiration is refreshed (throttled by
// TouchInterval) and, when w is non-nil, the cookies are re-issued so
// the client's MaxAge tracks the server-side expiry.
func (m *Manager) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	id, err := m.cookies.GetSigned(r, m.config.CookieName)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return nil, ErrNoSession
		}
		// A present but unverifiable cookie is worth recording: either
		// tampering or a fully rotated-out secret.
		m.reporter.SecurityViolation("invalid_session_cookie", "medium", "", clientip.FromRequest(r), "session cookie failed signature verification")
		return nil, ErrNoSession
	}

	opCtx, cancel := m.opCtx(ctx)
	sess, err := m.store.Get(opCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoSession
		}
		m.logger.ErrorContext(ctx, "session lookup failed, failing closed", slog.Any("error", err))
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if sess.IsExpired() {
		m.deleteQuietly(ctx, sess)
		return nil, ErrNoSession
	}

	if compromised := m.hijackCheck(ctx, r, sess); compromised {
		return nil, ErrCompromised
	}

	m.refresh(ctx, w, sess)

	return sess, nil
}

// Invalidate destroys a session and clears its cookies. Idempotent: safe
// to call for already-expired or already-deleted sessions.
func (m *Manager) Invalidate(ctx context.Context, w http.ResponseWriter, id string, userID uuid.UUID) error {
	opCtx, cancel := m.opCtx(ctx)
	defer cancel()

	if err := m.store.Delete(opCtx, id, userID.String()); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrStoreUnavailable, err)
	}

	if w != nil {
		m.cookies.Delete(w, m.config.CookieName)
		m.cookies.Delete(w, m.config.CSRFCookieName)
	}
	return nil
}

// InvalidateUser revokes every session belonging to the user ("log out
// everywhere"). Returns the number of sessions destroyed.
func (m *Manager) InvalidateUser(ctx context.Context, userID uuid.UUID) (int, error) {
	opCtx, cancel := m.opCtx(ctx)
	sessions, err := m.store.UserSessions(opCtx, userID.String())
	cancel()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}

	count := 0
	for _, sess := range sessions {
		opCtx, cancel := m.opCtx(ctx)
		err := m.store.Delete(opCtx, sess.ID, userID.String())
		cancel()
		if err != nil && !errors.Is(err, ErrNotFound) {
			return count, errors.Join(ErrStoreUnavailable, err)
		}
		count++
	}
	return count, nil
}

// Rotate replaces the session with a fresh identifier and CSRF token,
// preserving the bound identity. Called at privilege-elevation points
// (e.g. re-authentication) to resist session fixation.
func (m *Manager) Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) (*Session, error) {
	fresh, err := m.Create(ctx, w, r, Identity{UserID: sess.UserID, Username: sess.Username})
	if err != nil {
		return nil, err
	}

	if err := m.Invalidate(ctx, nil, sess.ID, sess.UserID); err != nil {
		m.logger.WarnContext(ctx, "failed to remove rotated session", slog.Any("error", err))
	}
	return fresh, nil
}

// CleanupExpired sweeps expired and corrupt records from the store. Run
// periodically; each pass is idempotent and also repairs record/set
// drift left behind by interrupted deletes.
func (m *Manager) CleanupExpired(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx)
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// enforceSessionCap evicts oldest-first until the user is below the cap.
// Eviction policy is deterministic: oldest by creation time goes first.
func (m *Manager) enforceSessionCap(ctx context.Context, userID uuid.UUID) error {
	if m.config.MaxSessionsPerUser <= 0 {
		return nil
	}

	opCtx, cancel := m.opCtx(ctx)
	sessions, err := m.store.UserSessions(opCtx, userID.String())
	cancel()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	if len(sessions) < m.config.MaxSessionsPerUser {
		return nil
	}

	slices.SortFunc(sessions, func(a, b *Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	evict := len(sessions) - m.config.MaxSessionsPerUser + 1
	for _, victim := range sessions[:evict] {
		opCtx, cancel := m.opCtx(ctx)
		err := m.store.Delete(opCtx, victim.ID, userID.String())
		cancel()
		if err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrStoreUnavailable, err)
		}
	}
	return nil
}

// hijackCheck compares the request against the session's bound traits.
// Any load-bearing mismatch destroys the whole session: a single
// anomalous request invalidates it rather than being silently retried.
func (m *Manager) hijackCheck(ctx context.Context, r *http.Request, sess *Session) bool {
	ip := clientip.FromRequest(r)
	current := fingerprint.Generate(r)

	if ip != sess.IP || !fingerprint.Match(sess.Fingerprint, current) {
		m.deleteQuietly(ctx, sess)
		m.reporter.SecurityViolation("session_hijack", "high", sess.ID, ip, "session traits mismatch, session destroyed")
		m.logger.WarnContext(ctx, "session hijack detected",
			slog.String("user_id", sess.UserID.String()),
			slog.String("session_ip", sess.IP),
			slog.String("request_ip", ip),
		)
		return true
	}

	return false
}

// refresh extends the sliding expiration, throttled so that a burst of
// requests does not hammer the store with TTL writes.
func (m *Manager) refresh(ctx context.Context, w http.ResponseWriter, sess *Session) {
	consumed := m.config.TTL - time.Until(sess.ExpiresAt)
	if consumed < m.config.TouchInterval {
		return
	}

	sess.ExpiresAt = time.Now().Add(m.config.TTL)

	opCtx, cancel := m.opCtx(ctx)
	err := m.store.Save(opCtx, sess)
	cancel()
	if err != nil {
		// The session stays valid until its previous expiry; nothing is
		// lost beyond the extension.
		m.logger.WarnContext(ctx, "failed to refresh session TTL", slog.Any("error", err))
		return
	}

	if w != nil {
		if err := m.setCookies(w, sess); err != nil {
			m.logger.WarnContext(ctx, "failed to refresh session cookies", slog.Any("error", err))
		}
	}
}

// setCookies issues the HTTP-only session cookie and the script-readable
// CSRF cookie, both scoped to the session's remaining lifetime.
func (m *Manager) setCookies(w http.ResponseWriter, sess *Session) error {
	maxAge := int(sess.TTL().Seconds())

	if err := m.cookies.SetSigned(w, m.config.CookieName, sess.ID,
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(m.config.SecureCookies),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(maxAge),
	); err != nil {
		return err
	}

	// The CSRF token must be readable by client script so it can be
	// echoed in request headers.
	return m.cookies.Set(w, m.config.CSRFCookieName, sess.CSRFToken,
		cookie.WithHTTPOnly(false),
		cookie.WithSecure(m.config.SecureCookies),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(maxAge),
	)
}

func (m *Manager) deleteQuietly(ctx context.Context, sess *Session) {
	opCtx, cancel := m.opCtx(ctx)
	defer cancel()
	if err := m.store.Delete(opCtx, sess.ID, sess.UserID.String()); err != nil && !errors.Is(err, ErrNotFound) {
		m.logger.WarnContext(ctx, "failed to delete session", slog.Any("error", err))
	}
}

// opCtx bounds a single cache operation.
func (m *Manager) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.config.CacheOpTimeout)
}
