package blog

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/blogclient/pkg/transport"
)

// AuthService covers /auth endpoints.
type AuthService struct {
	d           Doer
	refreshPath string
}

// NewAuthService returns an AuthService over d. Refresh posts to the path
// reported by d when it has a RefreshPath method, as *transport.Transport
// does, so both refresh paths of a client hit the same endpoint.
func NewAuthService(d Doer) *AuthService {
	s := &AuthService{d: d, refreshPath: transport.DefaultRefreshPath}
	if rp, ok := d.(interface{ RefreshPath() string }); ok && rp.RefreshPath() != "" {
		s.refreshPath = rp.RefreshPath()
	}
	return s
}

// Login exchanges credentials for a token pair and the user.
func (s *AuthService) Login(ctx context.Context, p LoginPayload) (*TokenResponse, error) {
	return call[*TokenResponse](ctx, s.d, &transport.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      p,
		Anonymous: true,
	})
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, p RegisterPayload) (*User, error) {
	return call[*User](ctx, s.d, &transport.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      p,
		Anonymous: true,
	})
}

// Refresh exchanges a refresh token for a new pair. The token is sent as the
// raw text/plain body.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return call[*TokenResponse](ctx, s.d, &transport.Request{
		Method:      http.MethodPost,
		Path:        s.refreshPath,
		RawBody:     []byte(refreshToken),
		ContentType: "text/plain",
		Anonymous:   true,
	})
}
