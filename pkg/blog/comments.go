package blog

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/blogclient/pkg/transport"
)

// CommentService covers comment endpoints.
type CommentService struct {
	d Doer
}

// NewCommentService returns a CommentService over d.
func NewCommentService(d Doer) *CommentService {
	return &CommentService{d: d}
}

// ListByPost returns the comments of a post.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, pr PageRequest) (*Page[Comment], error) {
	path, err := idPath("/posts/%d/comments", postID)
	if err != nil {
		return nil, err
	}
	return get[*Page[Comment]](ctx, s.d, path, pr.Query())
}

// ListByAuthor returns the comments written by a user.
func (s *CommentService) ListByAuthor(ctx context.Context, authorID int64, pr PageRequest) (*Page[Comment], error) {
	path, err := idPath("/users/%d/comments", authorID)
	if err != nil {
		return nil, err
	}
	return get[*Page[Comment]](ctx, s.d, path, pr.Query())
}

// Create adds a comment to a post.
func (s *CommentService) Create(ctx context.Context, postID int64, p CommentPayload) (*Comment, error) {
	path, err := idPath("/posts/%d/comments", postID)
	if err != nil {
		return nil, err
	}
	return call[*Comment](ctx, s.d, &transport.Request{Method: http.MethodPost, Path: path, Body: p})
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	path, err := idPath("/comments/%d", id)
	if err != nil {
		return err
	}
	return send(ctx, s.d, &transport.Request{Method: http.MethodDelete, Path: path})
}
