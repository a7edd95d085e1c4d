package blogclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/i18n"
	"github.com/dmitrymomot/blogclient/pkg/kv"
	"github.com/dmitrymomot/blogclient/pkg/logger"
	"github.com/dmitrymomot/blogclient/pkg/session"
	"github.com/dmitrymomot/blogclient/pkg/transport"
	"github.com/dmitrymomot/blogclient/pkg/ui"
)

// Client bundles the API services with the session, UI and auth state of
// one user.
type Client struct {
	*blog.Services

	Session    *session.Manager[blog.User]
	Transport  *transport.Transport
	UI         *ui.Store
	Auth       *auth.Store
	I18n       *i18n.I18n
	Translator *i18n.Translator

	logger     *slog.Logger
	store      kv.Store
	httpClient *http.Client
}

// New builds a client from cfg and loads the persisted session. A corrupt
// session is discarded, not treated as an error.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.New(cfg.LoggerConfig(), logger.RequestIDExtractor())
	}

	store := o.store
	if store == nil {
		var err error
		if store, err = openStore(ctx, cfg, o.logger); err != nil {
			return nil, fmt.Errorf("blogclient: open session store: %w", err)
		}
	}

	c := &Client{logger: o.logger, store: store, httpClient: o.httpClient}

	c.Session = session.New[blog.User](store, session.WithClock(o.clock), session.WithLogger(o.logger))
	if err := c.Session.Load(ctx); err != nil {
		if !errors.Is(err, session.ErrCorrupt) {
			return nil, errors.Join(err, store.Close())
		}
		o.logger.WarnContext(ctx, "discarded corrupt session", slog.String("error", err.Error()))
	}

	catalog, err := i18n.Default()
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	c.I18n = catalog
	c.Translator = i18n.NewTranslator(catalog, cfg.Language, i18n.Namespace)

	uiOpts := []ui.Option{ui.WithClock(o.clock), ui.WithLogger(o.logger)}
	if o.onChange != nil {
		uiOpts = append(uiOpts, ui.WithOnChange(o.onChange))
	}
	c.UI = ui.New(uiOpts...)

	trOpts := []transport.Option{
		transport.WithLogger(o.logger),
		transport.WithTimeout(cfg.Timeout),
		transport.WithRefreshPath(cfg.RefreshPath),
		transport.WithRefreshTimeout(cfg.RefreshTimeout),
		// The auth store is built after the transport it depends on.
		transport.WithNavigator(transport.NavigatorFunc(func(ctx context.Context) {
			c.Auth.RedirectToLogin(ctx)
		})),
	}
	if o.httpClient != nil {
		trOpts = append(trOpts, transport.WithHTTPClient(o.httpClient))
	}
	if o.registerer != nil {
		trOpts = append(trOpts, transport.WithMetrics(o.registerer))
	}
	if cfg.RateLimit > 0 {
		trOpts = append(trOpts, transport.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.BreakerFailures > 0 {
		trOpts = append(trOpts, transport.WithCircuitBreaker(uint32(cfg.BreakerFailures), cfg.BreakerCooldown))
	}
	c.Transport = transport.New(cfg.APIURL, c.Session, trOpts...)
	c.Services = blog.NewServices(c.Transport)

	authOpts := []auth.Option{
		auth.WithUI(c.UI),
		auth.WithTranslator(c.Translator.TranslateMessage),
		auth.WithLogger(o.logger),
	}
	if o.router != nil {
		authOpts = append(authOpts, auth.WithRouter(o.router))
	}
	c.Auth = auth.New(c.Session, c.Services, authOpts...)

	return c, nil
}

// Logger returns the client logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Me returns the signed-in user.
func (c *Client) Me() (*blog.User, error) {
	if u := c.Auth.User(); u != nil && c.Auth.IsAuthenticated() {
		return u, nil
	}
	return nil, ErrNotSignedIn
}

// HTTPClient returns an HTTP client that sends the session access token on
// every request. It is meant for URLs outside the API services, such as
// links returned by the API. The token is read when the client first
// needs it, so build a new client after the session changes. It does not
// refresh tokens: a 401 is returned to the caller as is.
func (c *Client) HTTPClient(ctx context.Context) *http.Client {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	return oauth2.NewClient(ctx, c.Session.TokenSource())
}

// Close releases the session store.
func (c *Client) Close() error {
	return c.store.Close()
}
