package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// File is a Store persisted as a single JSON object on disk.
// Every mutation rewrites the document through a temporary file and an
// atomic rename, so a crash never leaves a half-written file behind.
type File struct {
	items  map[string]string
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFile opens the store at path, creating parent directories as needed.
// A missing file is treated as an empty store.
// Returns ErrCorruptFile if the file exists but is not a JSON object of strings.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("kv: create store dir: %w", err)
	}

	f := &File{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("kv: read store file: %w", err)
	}

	if len(data) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(data, &f.items); err != nil {
		return nil, errors.Join(ErrCorruptFile, err)
	}
	if f.items == nil {
		f.items = make(map[string]string)
	}

	return f, nil
}

// Path returns the location of the backing file.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return "", ErrClosed
	}

	v, ok := f.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores a single value and flushes the document.
func (f *File) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

// SetMany stores all entries and flushes the document once.
func (f *File) SetMany(_ context.Context, entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	next := maps.Clone(f.items)
	maps.Copy(next, entries)

	if err := f.flush(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

// Delete removes the given keys and flushes the document.
func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	next := maps.Clone(f.items)
	for _, k := range keys {
		delete(next, k)
	}

	if err := f.flush(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

// Close marks the store as closed. Close is idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

// flush writes items to disk. Caller must hold the mutex.
func (f *File) flush(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kv-*")
	if err != nil {
		return fmt.Errorf("kv: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: write temp file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: replace store file: %w", err)
	}

	return nil
}

var _ Store = (*File)(nil)
