package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/blogclient/pkg/kv"
	"github.com/dmitrymomot/blogclient/pkg/logger"
)

// Manager holds the tokens and the signed-in user of one client, mirrored
// to a kv.Store on every change. It is safe for concurrent use.
type Manager[U any] struct {
	store  kv.Store
	clock  clockwork.Clock
	logger *slog.Logger
	user   *U

	accessToken  string
	refreshToken string
	leeway       time.Duration

	mu sync.RWMutex
}

// New returns an empty manager backed by store. Call Load to restore a
// previously persisted session.
func New[U any](store kv.Store, opts ...Option) *Manager[U] {
	cfg := config{
		clock:  clockwork.NewRealClock(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[U]{
		store:  store,
		clock:  cfg.clock,
		logger: cfg.logger,
		leeway: cfg.leeway,
	}
}

// Load restores the session from the store. Missing entries are treated as
// empty. An undecodable user entry clears the whole session and returns
// ErrCorrupt.
func (m *Manager[U]) Load(ctx context.Context) error {
	access, err := m.get(ctx, KeyAccessToken)
	if err != nil {
		return err
	}
	refresh, err := m.get(ctx, KeyRefreshToken)
	if err != nil {
		return err
	}
	raw, err := m.get(ctx, KeyUser)
	if err != nil {
		return err
	}

	var user *U
	if raw != "" {
		user = new(U)
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			m.logger.WarnContext(ctx, "discarding corrupt session", slog.String("error", err.Error()))
			if clearErr := m.Clear(ctx); clearErr != nil {
				return errors.Join(fmt.Errorf("%w: %w", ErrCorrupt, err), clearErr)
			}
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	m.mu.Lock()
	m.accessToken = access
	m.refreshToken = refresh
	m.user = user
	m.mu.Unlock()

	return nil
}

// AccessToken returns the current access token, or "".
func (m *Manager[U]) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token, or "".
func (m *Manager[U]) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager[U]) User() *U {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Set replaces tokens and user together. A nil user removes the stored user.
// The in-memory state changes even if persisting fails.
func (m *Manager[U]) Set(ctx context.Context, access, refresh string, user *U) error {
	entries, err := userEntry(user)
	if err != nil {
		return err
	}
	entries[KeyAccessToken] = access
	entries[KeyRefreshToken] = refresh

	m.mu.Lock()
	m.accessToken = access
	m.refreshToken = refresh
	m.user = cloneUser(user)
	m.mu.Unlock()

	return m.persist(ctx, entries)
}

// SetTokens replaces both tokens and keeps the user.
func (m *Manager[U]) SetTokens(ctx context.Context, access, refresh string) error {
	m.mu.Lock()
	m.accessToken = access
	m.refreshToken = refresh
	m.mu.Unlock()

	return m.persist(ctx, map[string]string{
		KeyAccessToken:  access,
		KeyRefreshToken: refresh,
	})
}

// SetUser replaces the signed-in user. A nil user removes it.
func (m *Manager[U]) SetUser(ctx context.Context, user *U) error {
	entries, err := userEntry(user)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.user = cloneUser(user)
	m.mu.Unlock()

	return m.persist(ctx, entries)
}

// Clear removes tokens and user from memory and from the store.
func (m *Manager[U]) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.accessToken = ""
	m.refreshToken = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether both an access token and a user are present.
func (m *Manager[U]) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken != "" && m.user != nil
}

func (m *Manager[U]) get(ctx context.Context, key string) (string, error) {
	v, err := m.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: load %s: %w", key, err)
	}
	return v, nil
}

// persist writes non-empty entries and deletes empty ones.
func (m *Manager[U]) persist(ctx context.Context, entries map[string]string) error {
	set := make(map[string]string, len(entries))
	var del []string
	for k, v := range entries {
		if v == "" {
			del = append(del, k)
			continue
		}
		set[k] = v
	}

	if len(set) > 0 {
		if err := m.store.SetMany(ctx, set); err != nil {
			return fmt.Errorf("session: save: %w", err)
		}
	}
	if len(del) > 0 {
		if err := m.store.Delete(ctx, del...); err != nil {
			return fmt.Errorf("session: save: %w", err)
		}
	}
	return nil
}

func userEntry[U any](user *U) (map[string]string, error) {
	if user == nil {
		return map[string]string{KeyUser: ""}, nil
	}
	b, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session: encode user: %w", err)
	}
	return map[string]string{KeyUser: string(b)}, nil
}

func cloneUser[U any](user *U) *U {
	if user == nil {
		return nil
	}
	u := *user
	return &u
}

// decodeClaims parses a JWT without verifying its signature. The client
// never holds the signing key; it only reads the subject and expiry.
func decodeClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
