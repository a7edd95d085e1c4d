package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/kv"
)

func backends(t *testing.T) map[string]func(t *testing.T) kv.Store {
	t.Helper()

	return map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store {
			return kv.NewMemory()
		},
		"file": func(t *testing.T) kv.Store {
			s, err := kv.NewFile(filepath.Join(t.TempDir(), "nested", "store.json"))
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) kv.Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return kv.NewRedis(client, kv.WithPrefix("test"))
		},
		"sqlite": func(t *testing.T) kv.Store {
			s, err := kv.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "session.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("missing key returns ErrNotFound", func(t *testing.T) {
				t.Parallel()
				s := newStore(t)
				defer s.Close()

				_, err := s.Get(context.Background(), "missing")
				require.ErrorIs(t, err, kv.ErrNotFound)
			})

			t.Run("set then get", func(t *testing.T) {
				t.Parallel()
				s := newStore(t)
				defer s.Close()

				ctx := context.Background()
				require.NoError(t, s.Set(ctx, "k", "v"))

				v, err := s.Get(ctx, "k")
				require.NoError(t, err)
				require.Equal(t, "v", v)
			})

			t.Run("set many writes every entry", func(t *testing.T) {
				t.Parallel()
				s := newStore(t)
				defer s.Close()

				ctx := context.Background()
				require.NoError(t, s.SetMany(ctx, map[string]string{
					"accessToken":  "a",
					"refreshToken": "r",
					"user":         `{"id":1}`,
				}))

				for k, want := range map[string]string{"accessToken": "a", "refreshToken": "r", "user": `{"id":1}`} {
					got, err := s.Get(ctx, k)
					require.NoError(t, err)
					require.Equal(t, want, got)
				}
			})

			t.Run("delete removes keys and ignores missing", func(t *testing.T) {
				t.Parallel()
				s := newStore(t)
				defer s.Close()

				ctx := context.Background()
				require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))
				require.NoError(t, s.Delete(ctx, "a", "b", "never-set"))

				_, err := s.Get(ctx, "a")
				require.ErrorIs(t, err, kv.ErrNotFound)
				_, err = s.Get(ctx, "b")
				require.ErrorIs(t, err, kv.ErrNotFound)
			})
		})
	}
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()

	s := kv.NewMemory()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Set(context.Background(), "k", "v"), kv.ErrClosed)
	_, err := s.Get(context.Background(), "k")
	require.ErrorIs(t, err, kv.ErrClosed)
}

func TestFile_Persistence(t *testing.T) {
	t.Parallel()

	t.Run("survives reopen", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "session.json")
		ctx := context.Background()

		s, err := kv.NewFile(path)
		require.NoError(t, err)
		require.NoError(t, s.SetMany(ctx, map[string]string{"accessToken": "tok"}))
		require.NoError(t, s.Close())

		reopened, err := kv.NewFile(path)
		require.NoError(t, err)
		defer reopened.Close()

		v, err := reopened.Get(ctx, "accessToken")
		require.NoError(t, err)
		require.Equal(t, "tok", v)
	})

	t.Run("file is private", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "session.json")
		s, err := kv.NewFile(path)
		require.NoError(t, err)
		defer s.Close()
		require.NoError(t, s.Set(context.Background(), "k", "v"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("empty file is an empty store", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		s, err := kv.NewFile(path)
		require.NoError(t, err)
		defer s.Close()

		_, err = s.Get(context.Background(), "k")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("corrupt file returns ErrCorruptFile", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := kv.NewFile(path)
		require.ErrorIs(t, err, kv.ErrCorruptFile)
	})
}

func TestRedis_Prefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := kv.NewRedis(client, kv.WithPrefix("blogctl"))
	require.NoError(t, s.Set(context.Background(), "accessToken", "tok"))

	got, err := mr.Get("blogctl:accessToken")
	require.NoError(t, err)
	require.Equal(t, "tok", got)
}

func TestOpenRedis(t *testing.T) {
	t.Parallel()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()
		client, err := kv.OpenRedis(context.Background(), "")
		require.ErrorIs(t, err, kv.ErrEmptyConnectionURL)
		require.Nil(t, client)
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()
		client, err := kv.OpenRedis(context.Background(), "http://localhost:6379")
		require.ErrorIs(t, err, kv.ErrFailedToParseURL)
		require.Nil(t, client)
	})

	t.Run("connects to running server", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)

		client, err := kv.OpenRedis(context.Background(), "redis://"+mr.Addr(), kv.WithRetry(1, 0))
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Ping(context.Background()).Err())
	})
}

func TestSQLite_Persistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := kv.NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string]string{"accessToken": "a1", "refreshToken": "r1"}))
	require.NoError(t, s.Set(ctx, "accessToken", "a2"))
	require.NoError(t, s.Close())

	reopened, err := kv.NewSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "a2", v)

	v, err = reopened.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "r1", v)
}

func TestSQLite_InMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := kv.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
