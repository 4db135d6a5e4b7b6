package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KVStore persists preferences as plain Redis strings. Keys are prefixed
// with the namespace so several installations can share one Redis.
type KVStore struct {
	client    *redis.Client
	namespace string
}

func NewKVStore(client *redis.Client, namespace string) *KVStore {
	return &KVStore{client: client, namespace: namespace}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}
