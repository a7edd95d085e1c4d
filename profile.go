package blogclient

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/blogclient/pkg/blog"
)

// Profile is a user with their first page of posts and comments.
type Profile struct {
	User     *blog.User
	Posts    *blog.Page[blog.Post]
	Comments *blog.Page[blog.Comment]
}

// Profile fetches a user, their posts and their comments concurrently. The
// three requests share one token refresh if the access token has expired.
func (c *Client) Profile(ctx context.Context, userID int64, pr blog.PageRequest) (*Profile, error) {
	var p Profile
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := c.Users.Get(ctx, userID)
		p.User = u
		return err
	})
	g.Go(func() error {
		posts, err := c.Posts.ListByAuthor(ctx, userID, pr)
		p.Posts = posts
		return err
	})
	g.Go(func() error {
		comments, err := c.Comments.ListByAuthor(ctx, userID, pr)
		p.Comments = comments
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &p, nil
}
