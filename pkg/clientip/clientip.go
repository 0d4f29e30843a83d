package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP address for the request, checking
// proxy headers before falling back to the connection address:
//
//  1. X-Forwarded-For (first valid IP in the chain)
//  2. X-Real-IP
//  3. RemoteAddr
//
// The returned value is a normalized textual IP, or an empty string when
// nothing in the request parses as a valid address.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for part := range strings.SplitSeq(forwarded, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may already be a bare IP (e.g. in tests)
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize validates the candidate and returns its canonical form.
func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return ""
	}
	return ip.String()
}
