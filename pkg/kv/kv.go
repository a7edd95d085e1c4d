package kv

import "context"

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a single value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores all entries together. Backends apply the write as one
	// operation, so readers never observe a partially written set.
	SetMany(ctx context.Context, entries map[string]string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases resources held by the store.
	Close() error
}
