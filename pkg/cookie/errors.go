package cookie

import "errors"

var (
	// ErrNoSecret indicates no signing secret was provided.
	ErrNoSecret = errors.New("cookie: no secret provided")

	// ErrSecretTooShort indicates a secret below the minimum length.
	ErrSecretTooShort = errors.New("cookie: secret must be at least 32 characters")

	// ErrInvalidSignature indicates signature verification failed,
	// suggesting tampering or a fully rotated-out secret.
	ErrInvalidSignature = errors.New("cookie: signature verification failed")

	// ErrInvalidFormat indicates the cookie value has an unexpected shape.
	ErrInvalidFormat = errors.New("cookie: invalid format")

	// ErrCookieNotFound indicates the cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie: not found in request")

	// ErrCookieTooLarge indicates the serialized cookie exceeds 4KB.
	ErrCookieTooLarge = errors.New("cookie: exceeds maximum size")
)
