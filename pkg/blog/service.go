package blog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/blogclient/pkg/transport"
)

// Doer sends API requests. *transport.Transport implements it.
type Doer interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Services groups the API services over one Doer.
type Services struct {
	Auth     *AuthService
	Posts    *PostService
	Comments *CommentService
	Users    *UserService
}

// NewServices returns every service bound to d.
func NewServices(d Doer) *Services {
	return &Services{
		Auth:     NewAuthService(d),
		Posts:    NewPostService(d),
		Comments: NewCommentService(d),
		Users:    NewUserService(d),
	}
}

func call[T any](ctx context.Context, d Doer, req *transport.Request) (T, error) {
	var out T
	resp, err := d.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func get[T any](ctx context.Context, d Doer, path string, query url.Values) (T, error) {
	return call[T](ctx, d, &transport.Request{Method: http.MethodGet, Path: path, Query: query})
}

func send(ctx context.Context, d Doer, req *transport.Request) error {
	_, err := d.Do(ctx, req)
	return err
}

func idPath(format string, ids ...int64) (string, error) {
	args := make([]any, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return "", fmt.Errorf("%w: %d", ErrInvalidID, id)
		}
		args[i] = id
	}
	return fmt.Sprintf(format, args...), nil
}
