package blog

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/blogclient/pkg/transport"
)

// UserService covers /users endpoints.
type UserService struct {
	d Doer
}

// NewUserService returns a UserService over d.
func NewUserService(d Doer) *UserService {
	return &UserService{d: d}
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	path, err := idPath("/users/%d", id)
	if err != nil {
		return nil, err
	}
	return get[*User](ctx, s.d, path, nil)
}

// List returns all users.
func (s *UserService) List(ctx context.Context, pr PageRequest) (*Page[User], error) {
	return get[*Page[User]](ctx, s.d, "/users", pr.Query())
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, id int64, p UserUpdatePayload) (*User, error) {
	if p.Role != nil && !p.Role.Valid() {
		return nil, ErrInvalidRole
	}
	path, err := idPath("/users/%d", id)
	if err != nil {
		return nil, err
	}
	return call[*User](ctx, s.d, &transport.Request{Method: http.MethodPut, Path: path, Body: p})
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	path, err := idPath("/users/%d", id)
	if err != nil {
		return err
	}
	return send(ctx, s.d, &transport.Request{Method: http.MethodDelete, Path: path})
}

// UpdateStatus changes the account status of a user.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, status UserStatus) (*User, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	path, err := idPath("/users/%d/status", id)
	if err != nil {
		return nil, err
	}
	return call[*User](ctx, s.d, &transport.Request{
		Method: http.MethodPatch,
		Path:   path,
		Query:  url.Values{"status": {string(status)}},
	})
}

// UpdatePassword changes a password. The body is the JSON array
// [oldPassword, newPassword].
func (s *UserService) UpdatePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	path, err := idPath("/users/%d/password", id)
	if err != nil {
		return err
	}
	return send(ctx, s.d, &transport.Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   [2]string{oldPassword, newPassword},
	})
}

// ExistsQuery selects the field to check. Set one or both.
type ExistsQuery struct {
	Username string
	Email    string
}

// Exists reports whether a user with the given username or email exists.
func (s *UserService) Exists(ctx context.Context, q ExistsQuery) (bool, error) {
	if q.Username == "" && q.Email == "" {
		return false, ErrEmptyLookup
	}
	query := url.Values{}
	if q.Username != "" {
		query.Set("username", q.Username)
	}
	if q.Email != "" {
		query.Set("email", q.Email)
	}
	return get[bool](ctx, s.d, "/users/validation/exists", query)
}
