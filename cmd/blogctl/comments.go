package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/content"
	"github.com/dmitrymomot/blogclient/pkg/validator"
)

const commentExcerpt = 60

var errPostOrAuthor = errors.New("blogctl: a post ID or --author is required")

func newCommentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
	}
	cmd.AddCommand(newCommentsListCmd(a), newCommentsAddCmd(a), newCommentsDeleteCmd(a))
	return cmd
}

func newCommentsListCmd(a *app) *cobra.Command {
	var (
		pr     blog.PageRequest
		author int64
	)

	cmd := &cobra.Command{
		Use:   "list [POST_ID]",
		Short: "List the comments of a post or of an author",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			var (
				page *blog.Page[blog.Comment]
				err  error
			)
			switch {
			case len(args) == 1:
				id, perr := parseID(args[0])
				if perr != nil {
					return perr
				}
				page, err = a.client.Comments.ListByPost(ctx, id, pr)
			case author > 0:
				page, err = a.client.Comments.ListByAuthor(ctx, author, pr)
			default:
				return errPostOrAuthor
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(page.Content))
			for _, c := range page.Content {
				rows = append(rows, []string{
					itoa(c.ID),
					c.Author.Username,
					content.Excerpt(c.Content, commentExcerpt),
				})
			}
			a.table([]string{"ID", "AUTHOR", "COMMENT"}, rows)
			a.pageFooter(page.Page)
			return nil
		},
	}
	pageFlags(cmd, &pr)
	cmd.Flags().Int64Var(&author, "author", 0, "list comments by this user ID instead")
	return cmd
}

func newCommentsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add POST_ID TEXT...",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.guard(ctx, auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			form := a.form()
			form.Register("content", text, validator.Required(), validator.MaxLength(1000))
			if !form.ValidateAll() {
				return a.reportForm(form)
			}

			c, err := a.client.Comments.Create(ctx, id, blog.CommentPayload{Content: text})
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("added comment #%d", c.ID))
			return nil
		},
	}
}

func newCommentsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a comment",
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

			ok, err := a.confirm(ctx, "Delete comment", fmt.Sprintf("Delete comment #%d?", id), yes)
			if err != nil || !ok {
				return err
			}
			if err := a.client.Comments.Delete(ctx, id); err != nil {
				return err
			}
			a.println(fmt.Sprintf("deleted comment #%d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
