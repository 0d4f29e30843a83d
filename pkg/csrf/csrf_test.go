package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsuite/authcore/pkg/csrf"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	token1, err := csrf.Generate()
	require.NoError(t, err)
	token2, err := csrf.Generate()
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
	// 32 bytes base64url without padding is 43 characters.
	assert.Len(t, token1, 43)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	token, err := csrf.Generate()
	require.NoError(t, err)

	t.Run("matching token passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, csrf.Validate(token, token))
	})

	t.Run("missing token rejected", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, csrf.Validate(token, ""), csrf.ErrValidationFailed)
	})

	t.Run("token for another session rejected", func(t *testing.T) {
		t.Parallel()

		other, err := csrf.Generate()
		require.NoError(t, err)
		assert.ErrorIs(t, csrf.Validate(token, other), csrf.ErrValidationFailed)
	})

	t.Run("byte mismatch rejected", func(t *testing.T) {
		t.Parallel()

		corrupted := "x" + token[1:]
		assert.ErrorIs(t, csrf.Validate(token, corrupted), csrf.ErrValidationFailed)
	})

	t.Run("no stored token rejected", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, csrf.Validate("", token), csrf.ErrValidationFailed)
	})
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set(csrf.HeaderName, "header-token")
		assert.Equal(t, "header-token", csrf.TokenFromRequest(r))
	})

	t.Run("form field", func(t *testing.T) {
		t.Parallel()

		form := url.Values{csrf.FormField: {"form-token"}}
		r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, "form-token", csrf.TokenFromRequest(r))
	})

	t.Run("header wins over form", func(t *testing.T) {
		t.Parallel()

		form := url.Values{csrf.FormField: {"form-token"}}
		r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set(csrf.HeaderName, "header-token")
		assert.Equal(t, "header-token", csrf.TokenFromRequest(r))
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	const stored = "stored-session-token"

	handler := func() (http.Handler, *bool) {
		called := false
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusNoContent)
		}), &called
	}

	sessionSource := func(r *http.Request) (string, bool) { return stored, true }
	noSessionSource := func(r *http.Request) (string, bool) { return "", false }

	t.Run("safe methods bypass validation", func(t *testing.T) {
		t.Parallel()

		next, called := handler()
		mw := csrf.Middleware(sessionSource)(next)

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.True(t, *called)
	})

	t.Run("state-changing request without token rejected", func(t *testing.T) {
		t.Parallel()

		next, called := handler()
		mw := csrf.Middleware(sessionSource)(next)

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))

		assert.False(t, *called)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("state-changing request with valid token passes", func(t *testing.T) {
		t.Parallel()

		next, called := handler()
		mw := csrf.Middleware(sessionSource)(next)

		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set(csrf.HeaderName, stored)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, r)

		assert.True(t, *called)
	})

	t.Run("non-session requests are exempt", func(t *testing.T) {
		t.Parallel()

		next, called := handler()
		mw := csrf.Middleware(noSessionSource)(next)

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("DELETE", "/resource", nil))

		assert.True(t, *called)
	})

	t.Run("failure reaches the reporter", func(t *testing.T) {
		t.Parallel()

		reporter := &recordingReporter{}
		next, _ := handler()
		mw := csrf.Middleware(sessionSource, csrf.WithReporter(reporter))(next)

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, []string{"csrf_failure"}, reporter.violations)
	})
}

type recordingReporter struct {
	violations []string
}

func (r *recordingReporter) SecurityViolation(violationType, severity, sessionID, clientIP, description string) {
	r.violations = append(r.violations, violationType)
}
