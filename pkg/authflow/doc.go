// Package authflow arbitrates between bearer-token and browser-session
// authentication for a single request.
//
// A valid bearer token always takes priority and session cookies are
// ignored for that request. A failed token falls through to session
// validation so hybrid clients holding both credentials keep working.
// When neither credential is present the resolver fails immediately
// without touching any backing store.
//
// The two strategies are structurally isolated: the resolver holds a
// TokenValidator and a SessionValidator as independent interfaces, and
// neither path can reach the other's state. Rate limiting runs before
// either strategy, and every outcome is handed to the monitor without
// adding latency to the request path.
package authflow
