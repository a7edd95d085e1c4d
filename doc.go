// Package blogclient is a client for the blog REST API: authentication,
// posts, comments and user administration.
//
// # Quick Start
//
// Load the configuration from the environment, build a client and restore
// any persisted session:
//
//	cfg, err := blogclient.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := blogclient.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Auth.Rehydrate(ctx); err != nil {
//	    log.Println("signed out:", err)
//	}
//
// # Authentication
//
// Every request goes through [transport.Transport], which attaches the
// session's bearer token. When the API answers 401 the transport refreshes
// the token once, however many requests failed concurrently, and replays
// them. If the refresh fails the session is cleared and the auth store is
// asked to send the user back to the login route:
//
//	user, err := client.Auth.HandleLogin(ctx, blog.LoginPayload{
//	    Username: "alice",
//	    Password: "Secret123",
//	})
//
// # Session storage
//
// Tokens and the signed-in user are persisted through a [kv.Store] chosen by
// Config.SessionBackend: a JSON file (the default), SQLite, Redis, or memory.
//
// # Forms
//
// Input is validated client-side with [validator.Form] before any request is
// sent. Messages are translated through the client's catalog:
//
//	form := validator.NewForm(validator.WithTranslator(client.Translator.TranslateMessage))
//	form.Register("username", "", validator.Required(), validator.Username())
package blogclient
