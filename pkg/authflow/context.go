package authflow

import (
	"context"
	"net/http"
)

type contextKey struct{}

// ContextWithPrincipal returns a context carrying the principal.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext extracts the principal placed by the middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// CSRFTokenSource feeds the csrf middleware from the request's
// principal. Token principals report no stored token, exempting them
// from the check; they never authenticate via ambient cookies.
func CSRFTokenSource(r *http.Request) (string, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok || !p.IsSession() {
		return "", false
	}
	return p.CSRFToken, true
}
