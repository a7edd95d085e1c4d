package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Claims decodes the registered claims of the access token.
func (m *Manager[U]) Claims() (*jwt.RegisteredClaims, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoToken
	}
	return decodeClaims(token)
}

// Subject returns the "sub" claim of the access token, which is the user ID,
// or "" when there is no decodable token.
func (m *Manager[U]) Subject() string {
	claims, err := m.Claims()
	if err != nil {
		return ""
	}
	return claims.Subject
}

// ExpiresAt returns the "exp" claim of the access token.
func (m *Manager[U]) ExpiresAt() (time.Time, bool) {
	claims, err := m.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsTokenExpired reports whether the access token is missing, undecodable or
// past its expiry. A token without "exp" never expires.
func (m *Manager[U]) IsTokenExpired() bool {
	claims, err := m.Claims()
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !m.clock.Now().Add(m.leeway).Before(claims.ExpiresAt.Time)
}

// TokenSource exposes the current access token as an oauth2.TokenSource.
func (m *Manager[U]) TokenSource() oauth2.TokenSource {
	return tokenSource[U]{m: m}
}

type tokenSource[U any] struct {
	m *Manager[U]
}

func (s tokenSource[U]) Token() (*oauth2.Token, error) {
	access := s.m.AccessToken()
	if access == "" {
		return nil, ErrNoToken
	}
	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: s.m.RefreshToken(),
		TokenType:    "Bearer",
	}
	if exp, ok := s.m.ExpiresAt(); ok {
		tok.Expiry = exp
	}
	return tok, nil
}
