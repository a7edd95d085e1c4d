package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout        = 10 * time.Second
	DefaultRefreshPath    = "/auth/refresh"
	DefaultRefreshTimeout = 10 * time.Second
	DefaultUserAgent      = "blogclient"
)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithNavigator sets the component asked to redirect to login when the
// session ends.
func WithNavigator(n Navigator) Option {
	return func(t *Transport) {
		if n != nil {
			t.navigator = n
		}
	}
}

// WithRefresher replaces the refresh call.
func WithRefresher(r Refresher) Option {
	return func(t *Transport) {
		if r != nil {
			t.refresher = r
		}
	}
}

// WithRefreshPath sets the path the default refresher posts to.
func WithRefreshPath(path string) Option {
	return func(t *Transport) {
		if path != "" {
			t.refreshPath = path
		}
	}
}

// WithRefreshTimeout bounds the refresh call. It runs detached from the
// caller's context, so this is its only deadline.
func WithRefreshTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.refreshTimeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// WithMetrics registers the transport collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(t *Transport) {
		if reg != nil {
			t.metrics = newMetrics(reg)
		}
	}
}

// WithRateLimit caps outgoing requests to r per second with the given burst.
// Requests wait for a token, bounded by their context.
func WithRateLimit(r float64, burst int) Option {
	return func(t *Transport) {
		if r > 0 && burst > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(r), burst)
		}
	}
}

// WithCircuitBreaker opens the circuit after failures consecutive network
// errors or 5xx responses and probes again after cooldown.
func WithCircuitBreaker(failures uint32, cooldown time.Duration) Option {
	return func(t *Transport) {
		if failures == 0 {
			return
		}
		t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "blog-api",
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				t.logger.Warn("circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			},
		})
	}
}
