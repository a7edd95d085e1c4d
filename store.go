package blogclient

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/blogclient/pkg/kv"
)

// openStore opens the session backend selected by cfg.
func openStore(ctx context.Context, cfg Config, log *slog.Logger) (kv.Store, error) {
	switch cfg.SessionBackend {
	case BackendMemory:
		return kv.NewMemory(), nil
	case BackendFile:
		f, err := kv.NewFile(cfg.SessionFile)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		db, err := kv.NewSQLite(ctx, cfg.SessionFile)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendRedis:
		client, err := kv.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.DebugContext(ctx, "session backend connected", slog.String("backend", BackendRedis))
		return &redisStore{
			Redis:  kv.NewRedis(client, kv.WithPrefix(cfg.SessionPrefix)),
			client: client,
		}, nil
	}
	return nil, ErrUnknownBackend
}

// redisStore owns the connection it was opened with.
type redisStore struct {
	*kv.Redis
	client redis.UniversalClient
}

func (s *redisStore) Close() error {
	return errors.Join(s.Redis.Close(), s.client.Close())
}
