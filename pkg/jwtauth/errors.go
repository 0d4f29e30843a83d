package jwtauth

import "errors"

var (
	ErrKeyTooShort    = errors.New("jwtauth: signing key must be at least 32 bytes")
	ErrInvalidToken   = errors.New("jwtauth: invalid token")
	ErrMissingSubject = errors.New("jwtauth: token subject is not a valid user id")
	ErrSigningFailed  = errors.New("jwtauth: failed to sign token")
)
