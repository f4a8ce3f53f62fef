package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps every key under prefix so Clear never touches foreign data
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings the server at addr
func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", addr)
	}
	return &RedisStore{client: rdb, prefix: prefix}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %q", key)
	}
	return value, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return errors.Wrapf(r.client.Set(ctx, r.prefix+key, value, 0).Err(), "set %q", key)
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, r.prefix+key).Err(), "delete %q", key)
}

func (r *RedisStore) Clear(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scan keys")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(r.client.Del(ctx, keys...).Err(), "clear")
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
