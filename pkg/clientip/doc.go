// Package clientip extracts the originating client IP address from HTTP
// requests, honoring common reverse-proxy headers with strict validation.
//
// The extracted address feeds session binding and rate-limit keys, so the
// package always validates and normalizes candidate values instead of
// trusting header contents verbatim.
//
// Usage:
//
//	ip := clientip.FromRequest(r)
//	if ip == "" {
//	    // no valid address could be determined
//	}
package clientip
