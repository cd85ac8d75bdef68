package store

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// Redis keeps entries as plain string values.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis checks the connection and returns the store. Keys are written
// under prefix so the database can be shared.
func NewRedis(ctx context.Context, rdb *redis.Client, prefix string) (*Redis, error) {
	if rdb == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}
