// Package session keeps the authentication state of a client: the access
// token, the refresh token and the signed-in user.
//
// Manager is generic over the user type and mirrors every change to a
// kv.Store under the keys "accessToken", "refreshToken" and "user" (JSON), so
// a session survives restarts when the store is durable:
//
//	store, err := kv.NewFile(path)
//	sess := session.New[blog.User](store)
//	if err := sess.Load(ctx); errors.Is(err, session.ErrCorrupt) {
//		// the stored session was discarded
//	}
//
// Manager satisfies transport.Session, which lets the transport read the
// bearer token and store refreshed tokens without knowing about users.
//
// Access tokens are decoded without signature verification to read the
// subject and expiry. The server remains the authority on validity.
package session
