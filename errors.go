package blogclient

import "errors"

var (
	ErrInvalidConfig   = errors.New("blogclient: invalid configuration")
	ErrUnknownBackend  = errors.New("blogclient: unknown session backend")
	ErrMissingRedisURL = errors.New("blogclient: redis session backend requires BLOG_REDIS_URL")
	ErrNotSignedIn     = errors.New("blogclient: not signed in")
)
