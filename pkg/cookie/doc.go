// Package cookie provides HTTP cookie management with HMAC-SHA256 signing
// and secret rotation.
//
// Signed cookies carry a tamper-evident signature so the server can trust
// values round-tripped through the client. Multiple secrets may be
// configured: the first signs new cookies while all are tried during
// verification, allowing zero-downtime secret rotation.
//
// Defaults are secure for browser sessions: Path=/, HttpOnly and
// SameSite=Lax. Individual attributes are overridden per call with
// functional options:
//
//	mgr, err := cookie.New([]string{secret})
//	if err != nil { ... }
//	err = mgr.SetSigned(w, "sid", token,
//	    cookie.WithSecure(true),
//	    cookie.WithMaxAge(3600),
//	)
package cookie
