package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces slot keys inside a shared Redis database.
const DefaultRedisPrefix = "tikbook:slot:"

const scanBatch = 100

type RedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisClient builds a client from address, password and db number.
// It does not dial; the first command does.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(k string) string {
	return r.prefix + k
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return value, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) (map[string][]byte, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	for i, v := range values {
		// deleted between SCAN and MGET
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("failed to list slots: unexpected value type %T", v)
		}
		result[strings.TrimPrefix(keys[i], r.prefix)] = []byte(s)
	}
	return result, nil
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}

func (r *RedisRepository) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
