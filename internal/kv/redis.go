package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session values as JSON strings that expire after ttl
// without writes.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "foodmood:session:", ttl: ttl}
}

func (s *RedisStore) key(sessionID, name string) string {
	return s.prefix + sessionKey(sessionID) + ":" + name
}

func (s *RedisStore) Get(ctx context.Context, sessionID, name string, dest any) error {
	data, err := s.client.Get(ctx, s.key(sessionID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return json.Unmarshal(data, dest)
}

func (s *RedisStore) Put(ctx context.Context, sessionID, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID, name), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, name string) error {
	if err := s.client.Del(ctx, s.key(sessionID, name)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
