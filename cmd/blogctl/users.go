package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
)

var adminOnly = auth.RouteMeta{RequiresAuth: true, RequiresAdmin: true}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer users",
	}
	cmd.AddCommand(newUsersListCmd(a), newUsersStatusCmd(a))
	return cmd
}

func newUsersListCmd(a *app) *cobra.Command {
	var pr blog.PageRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.guard(ctx, adminOnly); err != nil {
				return err
			}

			page, err := a.client.Users.List(ctx, pr)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(page.Content))
			for _, u := range page.Content {
				rows = append(rows, []string{itoa(u.ID), u.Username, u.Email, string(u.Role), string(u.Status)})
			}
			a.table([]string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS"}, rows)
			a.pageFooter(page.Page)
			return nil
		},
	}
	pageFlags(cmd, &pr)
	return cmd
}

func newUsersStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID ACTIVE|INACTIVE|SUSPENDED|PENDING",
		Short: "Change the status of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := blog.ParseUserStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.guard(ctx, adminOnly); err != nil {
				return err
			}

			u, err := a.client.Users.UpdateStatus(ctx, id, status)
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("%s is %s", u.Username, u.Status))
			return nil
		},
	}
}
