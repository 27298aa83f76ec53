package models

import "errors"

var (
	// ErrUnauthenticated is returned for a missing, malformed, expired or revoked token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a valid identity lacks the required role.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is returned when a required field is missing or a value is out of range.
	ErrValidation = errors.New("validation failed")
)
