package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.KeyValueStore = (*KVRepository)(nil)

// KVRepository stores values as plain redis strings without expiry.
type KVRepository struct {
	api redisAPI
}

func NewKVRepository(client *goredis.Client) *KVRepository {
	return &KVRepository{api: client}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.api.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.api.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if err := r.api.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
