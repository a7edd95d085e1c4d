package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
)

func newProfileCmd(a *app) *cobra.Command {
	var pr blog.PageRequest

	cmd := &cobra.Command{
		Use:   "profile [USER_ID]",
		Short: "Show a user with their posts and comments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			var id int64
			if len(args) == 1 {
				parsed, err := parseID(args[0])
				if err != nil {
					return err
				}
				id = parsed
			} else {
				me, err := a.client.Me()
				if err != nil {
					return err
				}
				id = me.ID
			}

			p, err := a.client.Profile(ctx, id, pr)
			if err != nil {
				return err
			}

			u := p.User
			a.println(fmt.Sprintf("%s (@%s)", u.Name(), u.Username))
			if u.Bio != "" {
				a.println(u.Bio)
			}
			a.println(fmt.Sprintf("%d posts (%d published), %d comments",
				u.PostsCount, u.PublishedPostsCount, u.CommentsCount))

			a.println()
			a.println("Posts:")
			for _, post := range p.Posts.Content {
				a.println(fmt.Sprintf("  #%d %s [%s]", post.ID, post.Title, post.Status))
			}
			a.println("Comments:")
			for _, c := range p.Comments.Content {
				a.println(fmt.Sprintf("  #%d on %q: %s", c.ID, c.Post.Title, c.Content))
			}
			return nil
		},
	}
	pageFlags(cmd, &pr)
	return cmd
}
