// Package csrf issues and validates per-session anti-forgery tokens.
//
// Each browser session carries one token, rotated only when the session
// itself is rotated. The token is delivered in a script-readable cookie
// and must be echoed back in the X-CSRF-Token header (or csrf_token form
// field) on every state-changing request. Validation is a constant-time
// comparison; a missing token fails exactly like a wrong one.
//
// Token material comes from crypto/rand, independent of the session
// identifier, so neither value can be derived from the other.
package csrf
