package authflow

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nexsuite/authcore/pkg/session"
)

// Method identifies which strategy authenticated the request.
type Method string

const (
	MethodToken   Method = "token"
	MethodSession Method = "session"
)

// Principal is the authenticated caller of a single request.
type Principal struct {
	Method   Method
	UserID   uuid.UUID
	Username string

	// CSRFToken is populated for session principals only; token
	// principals do not participate in the CSRF scheme.
	CSRFToken string
}

// IsSession reports whether the principal came from a browser session.
func (p Principal) IsSession() bool {
	return p.Method == MethodSession
}

// Identity is the result of a successful credential validation,
// before the resolver stamps it with the method that produced it.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// TokenValidator validates a bearer token. Implementations must hold no
// session state; the token path and the session path stay fully
// isolated from each other.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (Identity, error)
}

// SessionValidator resolves the request's cookie into a live session.
// Satisfied by *session.Manager. The response writer, when non-nil,
// receives refreshed cookies on successful validation.
type SessionValidator interface {
	Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

// Auditor receives resolution outcomes asynchronously. Implementations
// must not block; the monitor enqueues into a buffered channel.
type Auditor interface {
	AuthAttempt(method string, success bool, latency time.Duration)
	SecurityViolation(violationType, severity, sessionID, clientIP, description string)
}

type noopAuditor struct{}

func (noopAuditor) AuthAttempt(string, bool, time.Duration)                  {}
func (noopAuditor) SecurityViolation(string, string, string, string, string) {}
