package store

import "errors"

var (
	// ErrNotFound indicates no record exists at the key.
	ErrNotFound = errors.New("store: record not found")

	// ErrAlreadyExists indicates a record already occupies the key.
	ErrAlreadyExists = errors.New("store: record already exists")

	// ErrEmptyKey indicates a zero-length key or index.
	ErrEmptyKey = errors.New("store: empty key")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store: closed")

	// ErrReadOnly indicates a write was attempted inside View.
	ErrReadOnly = errors.New("store: read-only transaction")
)
