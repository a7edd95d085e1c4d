package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/content"
	"github.com/dmitrymomot/blogclient/pkg/validator"
)

func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}
	cmd.AddCommand(
		newPostsListCmd(a),
		newPostsShowCmd(a),
		newPostsCreateCmd(a),
		newPostsStatusCmd(a),
		newPostsDeleteCmd(a),
	)
	return cmd
}

func pageFlags(cmd *cobra.Command, pr *blog.PageRequest) {
	cmd.Flags().IntVar(&pr.Page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pr.Size, "size", blog.DefaultPageSize, "page size")
}

func newPostsListCmd(a *app) *cobra.Command {
	var (
		pr     blog.PageRequest
		all    bool
		author int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				page *blog.Page[blog.Post]
				err  error
			)
			switch {
			case author > 0:
				if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
					return err
				}
				page, err = a.client.Posts.ListByAuthor(ctx, author, pr)
			case all:
				if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
					return err
				}
				page, err = a.client.Posts.List(ctx, pr)
			default:
				page, err = a.client.Posts.ListPublished(ctx, pr)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(page.Content))
			for _, p := range page.Content {
				rows = append(rows, []string{itoa(p.ID), p.Title, string(p.Status), p.Author.Username})
			}
			a.table([]string{"ID", "TITLE", "STATUS", "AUTHOR"}, rows)
			a.pageFooter(page.Page)
			return nil
		},
	}
	pageFlags(cmd, &pr)
	cmd.Flags().BoolVar(&all, "all", false, "include drafts and archived posts")
	cmd.Flags().Int64Var(&author, "author", 0, "only posts by this user ID")
	return cmd
}

func newPostsShowCmd(a *app) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			p, err := a.client.Posts.Get(ctx, id)
			if err != nil {
				return err
			}

			body := content.PlainText(p.Content)
			if html {
				if body, err = p.RenderHTML(); err != nil {
					return err
				}
			}
			a.println(p.Title)
			a.println(fmt.Sprintf("by %s, %s, %s", p.Author.Username, p.Status, p.CreatedAt.Format("2006-01-02")))
			a.println()
			a.println(body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "render the body as sanitized HTML")
	return cmd
}

func newPostsCreateCmd(a *app) *cobra.Command {
	var (
		p    blog.PostPayload
		file string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				p.Content = string(data)
			}

			form := a.form()
			form.Register("title", p.Title, validator.Required(), validator.MaxLength(200))
			form.Register("content", p.Content, validator.Required())
			if !form.ValidateAll() {
				return a.reportForm(form)
			}

			post, err := a.client.Posts.Create(ctx, p)
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("created post #%d (%s)", post.ID, post.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Title, "title", "", "post title")
	cmd.Flags().StringVar(&p.Content, "content", "", "Markdown body")
	cmd.Flags().StringVar(&file, "file", "", "read the Markdown body from a file")
	return cmd
}

func newPostsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID DRAFT|PUBLISHED|ARCHIVED",
		Short: "Change the status of a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := blog.ParsePostStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			post, err := a.client.Posts.UpdateStatus(ctx, id, status)
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("post #%d is %s", post.ID, post.Status))
			return nil
		},
	}
}

func newPostsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			ok, err := a.confirm(ctx, "Delete post", fmt.Sprintf("Delete post #%d?", id), yes)
			if err != nil || !ok {
				return err
			}
			if err := a.client.Posts.Delete(ctx, id); err != nil {
				return err
			}
			a.println(fmt.Sprintf("deleted post #%d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
