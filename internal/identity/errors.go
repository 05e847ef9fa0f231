package identity

import "errors"

var (
	// ErrNotFound indicates no user exists for the given email or id.
	ErrNotFound = errors.New("user not found")
	// ErrExists indicates the email is already registered.
	ErrExists = errors.New("user already exists")
	// ErrInvalidEmail indicates the email failed format validation.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidCredentials indicates a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
