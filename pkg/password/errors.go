package password

import "errors"

var (
	// ErrInvalidCredentials covers every authentication failure: unknown
	// user, missing hash, wrong password. Deliberately indistinct.
	ErrInvalidCredentials = errors.New("password: invalid credentials")

	ErrEmptyPassword   = errors.New("password: password must not be empty")
	ErrPasswordTooLong = errors.New("password: password exceeds bcrypt length limit")
)
