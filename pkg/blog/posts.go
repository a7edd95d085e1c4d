package blog

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/blogclient/pkg/transport"
)

// PostService covers /posts endpoints.
type PostService struct {
	d Doer
}

// NewPostService returns a PostService over d.
func NewPostService(d Doer) *PostService {
	return &PostService{d: d}
}

// List returns every post visible to the caller.
func (s *PostService) List(ctx context.Context, pr PageRequest) (*Page[Post], error) {
	return get[*Page[Post]](ctx, s.d, "/posts", pr.Query())
}

// ListPublished returns published posts.
func (s *PostService) ListPublished(ctx context.Context, pr PageRequest) (*Page[Post], error) {
	return get[*Page[Post]](ctx, s.d, "/posts/published", pr.Query())
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id int64) (*Post, error) {
	path, err := idPath("/posts/%d", id)
	if err != nil {
		return nil, err
	}
	return get[*Post](ctx, s.d, path, nil)
}

// ListByAuthor returns the posts of one author.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64, pr PageRequest) (*Page[Post], error) {
	path, err := idPath("/posts/author/%d", authorID)
	if err != nil {
		return nil, err
	}
	return get[*Page[Post]](ctx, s.d, path, pr.Query())
}

// Create creates a post.
func (s *PostService) Create(ctx context.Context, p PostPayload) (*Post, error) {
	return call[*Post](ctx, s.d, &transport.Request{Method: http.MethodPost, Path: "/posts", Body: p})
}

// Update replaces title and content of a post.
func (s *PostService) Update(ctx context.Context, id int64, p PostPayload) (*Post, error) {
	path, err := idPath("/posts/%d", id)
	if err != nil {
		return nil, err
	}
	return call[*Post](ctx, s.d, &transport.Request{Method: http.MethodPut, Path: path, Body: p})
}

// UpdateStatus changes the publication status of a post.
func (s *PostService) UpdateStatus(ctx context.Context, id int64, status PostStatus) (*Post, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	path, err := idPath("/posts/%d/status", id)
	if err != nil {
		return nil, err
	}
	return call[*Post](ctx, s.d, &transport.Request{
		Method: http.MethodPatch,
		Path:   path,
		Query:  url.Values{"status": {string(status)}},
	})
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	path, err := idPath("/posts/%d", id)
	if err != nil {
		return err
	}
	return send(ctx, s.d, &transport.Request{Method: http.MethodDelete, Path: path})
}
