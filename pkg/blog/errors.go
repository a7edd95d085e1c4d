package blog

import "errors"

var (
	ErrInvalidID      = errors.New("blog: id must be positive")
	ErrInvalidStatus  = errors.New("blog: invalid status")
	ErrInvalidRole    = errors.New("blog: invalid role")
	ErrEmptyLookup    = errors.New("blog: username or email is required")
	ErrUnexpectedBody = errors.New("blog: unexpected response body")
)
