package blogclient

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/kv"
	"github.com/dmitrymomot/blogclient/pkg/ui"
)

// Option configures the client.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	store      kv.Store
	httpClient *http.Client
	router     auth.Router
	registerer prometheus.Registerer
	clock      clockwork.Clock
	onChange   func(ui.State)
}

// WithLogger sets the logger. Defaults to one built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStore sets the session store, overriding Config.SessionBackend.
// The client closes it on Close.
func WithStore(s kv.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithHTTPClient sets the HTTP client used by the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithRouter sets the router the auth store navigates with.
func WithRouter(r auth.Router) Option {
	return func(o *options) {
		if r != nil {
			o.router = r
		}
	}
}

// WithMetrics registers transport metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithClock sets the clock for token expiry and alert timeouts.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithUIObserver registers fn to receive every UI state change.
func WithUIObserver(fn func(ui.State)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}
