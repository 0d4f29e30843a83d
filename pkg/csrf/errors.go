package csrf

import "errors"

var (
	// ErrValidationFailed indicates a missing or mismatched anti-forgery
	// token. Distinct from authentication failure: the user may be
	// authenticated while the request itself is suspect.
	ErrValidationFailed = errors.New("csrf: validation failed")

	// ErrTokenGeneration indicates the random source failed.
	ErrTokenGeneration = errors.New("csrf: token generation failed")
)
