package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
)

const (
	// tokenBytes gives 256 bits of entropy per token.
	tokenBytes = 32

	// HeaderName is the request header clients echo the token in.
	HeaderName = "X-CSRF-Token"

	// FormField is the form field fallback for classic form posts.
	FormField = "csrf_token"
)

// Generate returns a new random anti-forgery token. Tokens are drawn
// independently of any session secret so one can never be derived from
// the other.
func Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Validate compares a submitted token against the session's stored token
// in constant time. Absence and mismatch are both hard failures.
func Validate(stored, submitted string) error {
	if stored == "" || submitted == "" {
		return ErrValidationFailed
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return ErrValidationFailed
	}
	return nil
}

// TokenFromRequest extracts the submitted token from the header or, for
// form submissions, the csrf_token field.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}
	return r.PostFormValue(FormField)
}

// isSafeMethod reports whether the method is idempotent per RFC 9110 and
// therefore exempt from CSRF checks.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
