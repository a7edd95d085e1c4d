package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/validator"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				username = a.prompt("Username")
			}
			if password == "" {
				password = a.prompt("Password")
			}

			form := a.form()
			form.Register("username", username, validator.Required())
			form.Register("password", password, validator.Required())
			if !form.ValidateAll() {
				return a.reportForm(form)
			}

			if _, err := a.client.Auth.HandleLogin(cmd.Context(), blog.LoginPayload{
				Username: username,
				Password: password,
			}); err != nil {
				return errors.Join(errReported, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.client.Auth.HandleLogout(cmd.Context())
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var p blog.RegisterPayload
	var confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if p.Username == "" {
				p.Username = a.prompt("Username")
			}
			if p.Email == "" {
				p.Email = a.prompt("Email")
			}
			if p.Password == "" {
				p.Password = a.prompt("Password")
			}
			if confirm == "" {
				confirm = a.prompt("Confirm password")
			}

			taken := false
			form := a.form()
			form.Register("username", p.Username,
				validator.Required(),
				validator.Username(),
				validator.Custom(func(any) bool { return !taken }, a.t("validation.taken", nil)),
			)
			form.Register("email", p.Email, validator.Required(), validator.Email())
			form.Register("password", p.Password, validator.Required(), validator.Password())
			form.Register("confirm", confirm, validator.Required(), validator.ConfirmPassword("password"))
			form.Register("first_name", p.FirstName, validator.MaxLength(50))
			form.Register("last_name", p.LastName, validator.MaxLength(50))
			if !form.ValidateAll() {
				return a.reportForm(form)
			}

			exists, err := a.client.Users.Exists(ctx, blog.ExistsQuery{Username: p.Username})
			if err != nil {
				return err
			}
			if exists {
				taken = true
				form.Validate("username")
				return a.reportForm(form)
			}

			if _, err := a.client.Auth.HandleRegister(ctx, p); err != nil {
				return errors.Join(errReported, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&p.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&p.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&p.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "last name")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.guard(cmd.Context(), auth.RouteMeta{RequiresAuth: true}); err != nil {
				return err
			}
			u, err := a.client.Me()
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("%s (#%d)", u.Name(), u.ID))
			a.println("username:", u.Username)
			a.println("email:   ", u.Email)
			a.println("role:    ", u.Role)
			a.println("status:  ", u.Status)
			return nil
		},
	}
}
