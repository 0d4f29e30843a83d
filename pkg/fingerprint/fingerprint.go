package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// Generate derives the load-bearing device fingerprint for a request.
// Only the full User-Agent string contributes: it is stable for the
// lifetime of a browser session, and a change is a strong hijack signal.
// Returns a 32-character hex string.
func Generate(r *http.Request) string {
	return digest(r.UserAgent())
}

// Advisory derives a secondary fingerprint from the request's Accept
// headers. These vary legitimately (language switches, client updates),
// so the value is recorded for monitoring but must never be used to
// invalidate a session.
func Advisory(r *http.Request) string {
	components := []string{
		r.Header.Get("Accept"),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
	}
	return digest(strings.Join(components, "|"))
}

// Match compares two fingerprints in constant time. An empty stored
// fingerprint matches anything so that sessions created before
// fingerprinting was enabled keep working.
func Match(stored, current string) bool {
	if stored == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(current)) == 1
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
