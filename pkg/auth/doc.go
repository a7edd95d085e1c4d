// Package auth is the client-side authentication state: it signs users in
// and out, restores a persisted session at start-up and decides whether a
// route may be entered.
//
// The store drives a session.Manager for tokens and the current user, a
// ui.Store for loading and alert feedback, and a Router for navigation:
//
//	store := auth.New(sess, services, auth.WithUI(uiStore), auth.WithRouter(router))
//	if err := store.Rehydrate(ctx); err != nil {
//		// the session was cleared
//	}
//	if _, err := store.HandleLogin(ctx, blog.LoginPayload{Username: u, Password: p}); err != nil {
//		return err
//	}
//
// Store also implements transport.Navigator so a transport can hand the
// "session ended" redirect back to it.
package auth
