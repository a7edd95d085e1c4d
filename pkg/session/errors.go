package session

import "errors"

var (
	// ErrNoToken is returned when the session holds no access token.
	ErrNoToken = errors.New("session: no access token")

	// ErrInvalidToken is returned when the access token cannot be decoded.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrCorrupt is returned by Load when a stored entry cannot be decoded.
	// The session is cleared before it is returned.
	ErrCorrupt = errors.New("session: corrupt stored session")
)
