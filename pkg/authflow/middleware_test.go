package authflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsuite/authcore/pkg/authflow"
	"github.com/nexsuite/authcore/pkg/ratelimiter"
)

func TestMiddleware_InjectsPrincipal(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	resolver := authflow.NewResolver(&stubTokens{identity: authflow.Identity{UserID: userID, Username: "alice"}}, nil)

	var got authflow.Principal
	handler := authflow.Middleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := authflow.PrincipalFromContext(r.Context())
		require.True(t, ok)
		got = p
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWith("good-token", false))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, authflow.MethodToken, got.Method)
}

func TestMiddleware_BrowserRedirectPreservesDestination(t *testing.T) {
	t.Parallel()

	resolver := authflow.NewResolver(&stubTokens{err: assert.AnError}, nil)
	handler := authflow.Middleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run unauthenticated")
	}))

	r := httptest.NewRequest("GET", "/settings/profile?tab=security", nil)
	r.RemoteAddr = "203.0.113.1:44321"
	r.Header.Set("Accept", "text/html,application/xhtml+xml")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := w.Result().Location()
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/settings/profile?tab=security", loc.Query().Get("redirect"))
}

func TestMiddleware_APIClientsGetJSON(t *testing.T) {
	t.Parallel()

	resolver := authflow.NewResolver(&stubTokens{err: assert.AnError}, nil)
	handler := authflow.Middleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run unauthenticated")
	}))

	r := requestWith("bad-token", false)
	r.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unauthenticated", body["error"])
}

func TestMiddleware_RateLimited(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{result: &ratelimiter.Result{
		Limit:     10,
		Remaining: -1,
		ResetAt:   time.Now().Add(42 * time.Second),
	}}
	resolver := authflow.NewResolver(&stubTokens{}, nil,
		authflow.WithRateLimiter(limiter, ratelimiter.ByClientIP),
	)

	handler := authflow.Middleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run while rate limited")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWith("token", false))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCSRFTokenSource(t *testing.T) {
	t.Parallel()

	t.Run("session principal exposes its token", func(t *testing.T) {
		t.Parallel()

		p := authflow.Principal{Method: authflow.MethodSession, UserID: uuid.New(), CSRFToken: "tok"}
		r := httptest.NewRequest("GET", "/", nil)
		r = r.WithContext(authflow.ContextWithPrincipal(r.Context(), p))

		token, ok := authflow.CSRFTokenSource(r)
		assert.True(t, ok)
		assert.Equal(t, "tok", token)
	})

	t.Run("token principal is exempt", func(t *testing.T) {
		t.Parallel()

		p := authflow.Principal{Method: authflow.MethodToken, UserID: uuid.New()}
		r := httptest.NewRequest("GET", "/", nil)
		r = r.WithContext(authflow.ContextWithPrincipal(r.Context(), p))

		_, ok := authflow.CSRFTokenSource(r)
		assert.False(t, ok)
	})

	t.Run("anonymous request is exempt", func(t *testing.T) {
		t.Parallel()

		_, ok := authflow.CSRFTokenSource(httptest.NewRequest("GET", "/", nil))
		assert.False(t, ok)
	})
}

func TestMiddleware_CustomLoginURL(t *testing.T) {
	t.Parallel()

	resolver := authflow.NewResolver(&stubTokens{err: assert.AnError}, nil)
	handler := authflow.Middleware(resolver,
		authflow.WithLoginURL("/auth/sign-in"),
		authflow.WithRedirectParam("next"),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/reports", nil)
	r.RemoteAddr = "203.0.113.1:44321"
	r.Header.Set("Accept", "text/html")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := w.Result().Location()
	require.NoError(t, err)
	assert.Equal(t, "/auth/sign-in", loc.Path)
	assert.Equal(t, "/reports", loc.Query().Get("next"))
}
