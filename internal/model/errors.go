package model

import "errors"

var (
	// ErrNotFound is returned by record stores when no durable record exists.
	ErrNotFound = errors.New("not found")
	// ErrMalformedRecord marks a durable record that fails to decode or validate.
	ErrMalformedRecord = errors.New("malformed identity record")
	// ErrInvalidRole is returned when a role cannot be assigned through role selection.
	ErrInvalidRole = errors.New("invalid role")
	// ErrStaleToken is returned when a token belongs to an identity that is no longer current.
	ErrStaleToken = errors.New("token does not match current identity")
)
