// Package kv provides small string key-value stores used to persist client
// state between process runs.
//
// Four backends implement [Store]:
//
//   - [Memory] keeps entries in a map. Useful for tests and short-lived processes.
//   - [File] keeps entries in a single JSON document on disk, the closest
//     equivalent to browser local storage for a command-line client.
//   - [Redis] keeps entries in Redis under an optional key prefix, so several
//     client processes can share one session.
//   - [SQLite] keeps entries in one table of an embedded SQLite database
//     (pure Go driver, no cgo), with transactional multi-key writes.
//
// # Usage
//
//	store, err := kv.NewFile(filepath.Join(home, ".blogctl", "session.json"))
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.SetMany(ctx, map[string]string{
//		"accessToken":  access,
//		"refreshToken": refresh,
//	})
//
// Redis connection with pooling and startup retry:
//
//	client, err := kv.OpenRedis(ctx, os.Getenv("BLOG_REDIS_URL"),
//		kv.WithPoolSize(5),
//		kv.WithRetry(3, time.Second),
//	)
//	store := kv.NewRedis(client, kv.WithPrefix("blogctl"))
//
// # Errors
//
// Get returns [ErrNotFound] for missing keys on every backend. Operations on a
// closed [Memory] or [File] store return [ErrClosed].
package kv
