package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed    = errors.New("store is closed")
	ErrAlreadyOpen    = errors.New("store is already open")
	ErrTableNotFound  = errors.New("table not found")
	ErrStorageFailure = errors.New("storage unavailable")
)

// Record and operation errors. ErrNotFound deliberately covers both "does
// not exist" and "not owned by the caller" so the two cases cannot be told
// apart from the outside.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCorruptRecord   = errors.New("corrupt record")
)

// Authentication errors. ErrInvalidToken covers expired and unknown reset
// tokens identically.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
)
