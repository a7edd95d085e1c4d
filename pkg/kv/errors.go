package kv

import "errors"

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("kv: key not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("kv: closed")

	// ErrCorruptFile is returned when the backing file cannot be decoded.
	ErrCorruptFile = errors.New("kv: corrupt store file")

	ErrEmptyConnectionURL = errors.New("kv: empty redis connection URL")
	ErrFailedToParseURL   = errors.New("kv: failed to parse redis connection URL")
	ErrConnectionFailed   = errors.New("kv: failed to establish redis connection")
)
