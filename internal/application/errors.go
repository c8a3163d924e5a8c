package application

import "errors"

var (
	// ErrNotFound is returned when the requested user does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned by password verifiers when a password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrInvalidRole is returned when a role value is not one of the known roles.
	ErrInvalidRole = errors.New("application: invalid role")
	// ErrCorruptSnapshot is returned when a persisted session snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("application: corrupt session snapshot")
)
