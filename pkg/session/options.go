package session

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Storage keys of the persisted entries.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

type config struct {
	clock  clockwork.Clock
	logger *slog.Logger
	leeway time.Duration
}

// Option configures a Manager.
type Option func(*config)

// WithClock sets the clock used for expiry checks.
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLeeway treats tokens expiring within d as already expired.
func WithLeeway(d time.Duration) Option {
	return func(c *config) {
		c.leeway = d
	}
}
