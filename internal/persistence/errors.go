package persistence

import "errors"

var (
	// ErrInvalidKey is returned when a namespace or key is empty.
	ErrInvalidKey = errors.New("persistence: invalid key")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("persistence: store closed")
)
