package authcore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authcore "github.com/nexsuite/authcore"
	"github.com/nexsuite/authcore/pkg/authflow"
	"github.com/nexsuite/authcore/pkg/cookie"
	"github.com/nexsuite/authcore/pkg/monitor"
	"github.com/nexsuite/authcore/pkg/session"
)

func setupService(t *testing.T, sessionTTL time.Duration) (*authcore.Service, *session.MemoryStore) {
	t.Helper()

	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.TTL = sessionTTL
	cfg.TouchInterval = 0
	cfg.SecureCookies = false
	cfg.CleanupInterval = 20 * time.Millisecond

	store := session.NewMemoryStore()
	mon := monitor.New()
	sessions := session.NewManager(store, cookies,
		session.WithConfig(cfg),
		session.WithReporter(mon),
	)
	resolver := authflow.NewResolver(nil, sessions, authflow.WithAuditor(mon))

	return authcore.New(sessions, resolver, mon), store
}

func TestService_EndToEnd(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, 30*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = svc.Run(ctx) }()

	// Login: create a session and capture its cookies.
	userID := uuid.New()
	loginReq := httptest.NewRequest("POST", "/login", nil)
	loginReq.RemoteAddr = "203.0.113.1:40000"
	loginReq.Header.Set("User-Agent", "Mozilla/5.0")

	w := httptest.NewRecorder()
	sess, err := svc.Sessions().Create(ctx, w, loginReq, session.Identity{UserID: userID, Username: "alice"})
	require.NoError(t, err)

	// An authenticated request resolves to a session principal.
	req := httptest.NewRequest("GET", "/app", nil)
	req.RemoteAddr = "203.0.113.1:40001"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	principal, err := svc.Resolver().Resolve(ctx, nil, req)
	require.NoError(t, err)
	assert.Equal(t, authflow.MethodSession, principal.Method)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, sess.CSRFToken, principal.CSRFToken)

	// The resolution outcome reaches the monitor asynchronously.
	require.NoError(t, svc.Monitor().Sync(ctx))
	rates := svc.Monitor().CompletionRates()
	require.Contains(t, rates, "session")
	assert.Equal(t, 1, rates["session"].Success)
}

func TestService_SweepsExpiredSessions(t *testing.T) {
	t.Parallel()

	svc, store := setupService(t, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = svc.Run(ctx) }()

	loginReq := httptest.NewRequest("POST", "/login", nil)
	loginReq.RemoteAddr = "203.0.113.1:40000"
	loginReq.Header.Set("User-Agent", "Mozilla/5.0")

	_, err := svc.Sessions().Create(ctx, httptest.NewRecorder(), loginReq, session.Identity{UserID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, 2*time.Second, 10*time.Millisecond, "background sweep must remove the expired session")
}

func TestService_RunStopsCleanly(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestService_MiddlewareIntegration(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, 30*time.Minute)

	handler := authflow.Middleware(svc.Resolver())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := authflow.PrincipalFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", p.Username)
	}))

	// Unauthenticated browser request redirects to login.
	r := httptest.NewRequest("GET", "/app", nil)
	r.RemoteAddr = "203.0.113.1:40000"
	r.Header.Set("Accept", "text/html")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// Authenticated request passes through.
	loginReq := httptest.NewRequest("POST", "/login", nil)
	loginReq.RemoteAddr = "203.0.113.1:40000"
	loginReq.Header.Set("User-Agent", "Mozilla/5.0")

	login := httptest.NewRecorder()
	_, err := svc.Sessions().Create(context.Background(), login, loginReq, session.Identity{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	authed := httptest.NewRequest("GET", "/app", nil)
	authed.RemoteAddr = "203.0.113.1:40001"
	authed.Header.Set("User-Agent", "Mozilla/5.0")
	for _, c := range login.Result().Cookies() {
		authed.AddCookie(c)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, authed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Header().Get("X-User"))
}
