// Package jwtauth implements the bearer-token side of authentication
// with HS256-signed JWTs. The validator is stateless and never touches
// session storage.
package jwtauth
