package auth

import "errors"

var (
	ErrSessionExpired = errors.New("auth: session expired")
	ErrInvalidSubject = errors.New("auth: access token has no user subject")
)
