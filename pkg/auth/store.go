package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/i18n"
	"github.com/dmitrymomot/blogclient/pkg/logger"
	"github.com/dmitrymomot/blogclient/pkg/session"
	"github.com/dmitrymomot/blogclient/pkg/transport"
	"github.com/dmitrymomot/blogclient/pkg/ui"
)

// WelcomeAlertTimeout is how long the post-login greeting stays visible.
const WelcomeAlertTimeout = 3 * time.Second

// TranslateFunc resolves a message key with placeholder values.
type TranslateFunc func(key string, values map[string]any) string

// Store is the authentication state of one client. It is safe for
// concurrent use.
type Store struct {
	session   *session.Manager[blog.User]
	auth      *blog.AuthService
	users     *blog.UserService
	ui        *ui.Store
	router    Router
	translate TranslateFunc
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithUI sets the UI store receiving loading and alert updates.
func WithUI(u *ui.Store) Option {
	return func(s *Store) {
		if u != nil {
			s.ui = u
		}
	}
}

// WithRouter sets the router used after login, logout and registration.
func WithRouter(r Router) Option {
	return func(s *Store) {
		if r != nil {
			s.router = r
		}
	}
}

// WithTranslator sets the message translator. The default uses the embedded
// English catalog.
func WithTranslator(fn TranslateFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.translate = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store over sess and the API services.
func New(sess *session.Manager[blog.User], services *blog.Services, opts ...Option) *Store {
	s := &Store{
		session: sess,
		auth:    services.Auth,
		users:   services.Users,
		router:  nopRouter{},
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ui == nil {
		s.ui = ui.New(ui.WithLogger(s.logger))
	}
	if s.translate == nil {
		s.translate = defaultTranslator()
	}
	return s
}

func defaultTranslator() TranslateFunc {
	catalog, err := i18n.Default()
	if err != nil {
		return func(key string, _ map[string]any) string { return key }
	}
	return i18n.NewTranslator(catalog, i18n.English, i18n.Namespace).TranslateMessage
}

// UI returns the UI store.
func (s *Store) UI() *ui.Store {
	return s.ui
}

// HandleLogin signs in with p. On success the tokens and user are persisted,
// the router goes home and a welcome alert is shown. On failure the session
// is cleared and an error alert carries the API message.
func (s *Store) HandleLogin(ctx context.Context, p blog.LoginPayload) (*blog.User, error) {
	s.ui.SetLoading(true)
	defer s.ui.SetLoading(false)

	resp, err := s.auth.Login(ctx, p)
	if err != nil {
		if cerr := s.session.Clear(ctx); cerr != nil {
			s.logger.WarnContext(ctx, "failed to clear session", slog.String("error", cerr.Error()))
		}
		s.ui.ShowAlert(s.translate("auth.login_failed", map[string]any{"reason": s.reason(err, "auth.login_invalid")}), ui.AlertError)
		return nil, err
	}

	user := resp.User
	if err := s.session.Set(ctx, resp.AccessToken, resp.RefreshToken, &user); err != nil {
		// The session keeps the tokens in memory.
		s.logger.WarnContext(ctx, "failed to persist session", slog.String("error", err.Error()))
	}

	s.push(ctx, Route{Name: RouteHome})
	s.ui.ShowAlertFor(s.translate("auth.welcome", map[string]any{"name": user.DisplayName()}), ui.AlertSuccess, WelcomeAlertTimeout)
	s.logger.InfoContext(ctx, "signed in", slog.Int64("user_id", user.ID))

	return &user, nil
}

// HandleRegister creates an account and sends the user to the login route.
func (s *Store) HandleRegister(ctx context.Context, p blog.RegisterPayload) (*blog.User, error) {
	s.ui.SetLoading(true)
	defer s.ui.SetLoading(false)

	user, err := s.auth.Register(ctx, p)
	if err != nil {
		s.ui.ShowAlert(s.translate("auth.register_failed", map[string]any{"reason": s.reason(err, "auth.register_invalid")}), ui.AlertError)
		return nil, err
	}

	s.push(ctx, Route{Name: RouteLogin})
	s.ui.ShowAlert(s.translate("auth.registered", map[string]any{"name": user.DisplayName()}), ui.AlertSuccess)
	return user, nil
}

// HandleLogout clears the session and sends the user to the login route.
func (s *Store) HandleLogout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return err
	}
	s.push(ctx, Route{Name: RouteLogin})
	s.ui.ShowAlert(s.translate("auth.logged_out", nil), ui.AlertInfo)
	return nil
}

// RedirectToLogin implements transport.Navigator. It is called after the
// transport ended the session.
func (s *Store) RedirectToLogin(ctx context.Context) {
	s.ui.ShowAlert(s.translate("auth.session_expired", nil), ui.AlertWarning)
	s.push(ctx, loginRoute(ReasonSessionExpired))
}

// Rehydrate validates a restored session. An expired access token is
// refreshed when a refresh token is present; a missing user is fetched by
// the token subject. Any failure clears the session.
func (s *Store) Rehydrate(ctx context.Context) error {
	if s.session.AccessToken() == "" {
		return nil
	}

	if s.session.IsTokenExpired() {
		if err := s.refresh(ctx); err != nil {
			return s.fail(ctx, err)
		}
	}

	if s.session.User() != nil {
		return nil
	}

	id, err := strconv.ParseInt(s.session.Subject(), 10, 64)
	if err != nil || id <= 0 {
		return s.fail(ctx, ErrInvalidSubject)
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("auth: fetch user: %w", err))
	}
	return s.session.SetUser(ctx, user)
}

func (s *Store) refresh(ctx context.Context) error {
	refresh := s.session.RefreshToken()
	if refresh == "" {
		return ErrSessionExpired
	}
	resp, err := s.auth.Refresh(ctx, refresh)
	if err != nil {
		return errors.Join(ErrSessionExpired, err)
	}
	if resp.AccessToken == "" {
		return ErrSessionExpired
	}

	user := s.session.User()
	if resp.User.ID != 0 {
		user = &resp.User
	}
	return s.session.Set(ctx, resp.AccessToken, resp.RefreshToken, user)
}

func (s *Store) fail(ctx context.Context, err error) error {
	s.logger.InfoContext(ctx, "discarding restored session", slog.String("error", err.Error()))
	if cerr := s.session.Clear(ctx); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// Guard checks meta against the current state. When entry is refused it
// returns the route to go to instead.
func (s *Store) Guard(meta RouteMeta) (Route, bool) {
	switch {
	case meta.RequiresAuth && !s.IsAuthenticated():
		return loginRoute(ReasonAuth), false
	case meta.RequiresAdmin && !s.IsAdmin():
		return Route{Name: RouteHome}, false
	case meta.RequiresGuest && s.IsAuthenticated():
		return Route{Name: RouteHome}, false
	}
	return Route{}, true
}

// IsAuthenticated reports whether a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

// IsAdmin reports whether the current user is an admin.
func (s *Store) IsAdmin() bool {
	u := s.session.User()
	return u != nil && u.IsAdmin()
}

// IsActive reports whether the current user's account is active.
func (s *Store) IsActive() bool {
	u := s.session.User()
	return u != nil && u.IsActive()
}

// IsTokenExpired reports whether the access token is missing or expired.
func (s *Store) IsTokenExpired() bool {
	return s.session.IsTokenExpired()
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *blog.User {
	return s.session.User()
}

func (s *Store) push(ctx context.Context, to Route) {
	if err := s.router.Push(ctx, to); err != nil {
		s.logger.WarnContext(ctx, "navigation failed", slog.String("route", to.Name), slog.String("error", err.Error()))
	}
}

// reason returns the API message of err. Errors without one, including
// network failures, get the translated fallback message.
func (s *Store) reason(err error, fallback string) string {
	if herr, ok := transport.AsHTTPError(err); ok && herr.Message != "" {
		return herr.Message
	}
	return s.translate(fallback, nil)
}

var _ transport.Navigator = (*Store)(nil)
