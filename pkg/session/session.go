package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session represents one authenticated browser context. A record lives in
// the cache under "session:<id>" and is indexed by the owner's
// "user_sessions:<user_id>" set. Identity fields are immutable for the
// session's life; only ExpiresAt advances (sliding expiration).
type Session struct {
	ID          string    `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	Fingerprint string    `json:"fingerprint"`
	CSRFToken   string    `json:"csrf_token"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired reports whether the session's sliding window has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime, zero for expired sessions.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// Identity is a user already authenticated by a prior step (password,
// 2FA) and handed in by the login collaborator.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// newID creates a cryptographically secure session identifier with 256
// bits of entropy, encoded base64url without padding.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
