package repository

import (
	"context"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"

	"github.com/honorwa/honor-wallet/pkg/apperr"
)

// RedisStore keeps documents as plain string keys under a prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.WithContext(ctx).Get(s.prefix + key).Bytes()
	if err == redis.Nil {
		return nil, errors.Wrapf(apperr.ErrNotFound, "document %q", key)
	}
	return raw, errors.Wrapf(err, "redis get %q", key)
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(s.client.WithContext(ctx).Set(s.prefix+key, value, 0).Err(), "redis set %q", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.client.WithContext(ctx).Del(s.prefix+key).Err(), "redis del %q", key)
}
