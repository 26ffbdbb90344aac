package model

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser is returned on registration with an already taken email.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials is returned on login with an unknown email or a
	// wrong password. Callers cannot tell which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrValidation is returned when a required input field is blank.
	ErrValidation = errors.New("all fields are required")
	// ErrNoSnapshot is returned by a SnapshotStore when the slot has never
	// been written.
	ErrNoSnapshot = errors.New("no snapshot")
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature mismatch")
)
