package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KV stores each collection as a plain string under kv:{key}, without
// expiry.
type KV struct {
	rdb redis.Cmdable
}

func NewKV(rdb redis.Cmdable) *KV { return &KV{rdb: rdb} }

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.rdb.Get(ctx, fmt.Sprintf(KeyKV, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.rdb.Set(ctx, fmt.Sprintf(KeyKV, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Remove(ctx context.Context, key string) error {
	if err := k.rdb.Del(ctx, fmt.Sprintf(KeyKV, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
