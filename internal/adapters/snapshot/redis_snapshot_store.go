package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotStore keeps planning snapshots in Redis, namespaced under a
// key prefix so one instance can host several planning environments.
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSnapshotStore(client *redis.Client, prefix string) *RedisSnapshotStore {
	if prefix == "" {
		prefix = "dispatch:snapshot:"
	}
	return &RedisSnapshotStore{client: client, prefix: prefix}
}

func (s *RedisSnapshotStore) key(key string) string {
	return s.prefix + key
}

// Get returns the blob stored under key, or (nil, nil) when absent.
func (s *RedisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("get snapshot: key must not be empty")
	}

	blob, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", key, err)
	}

	return blob, nil
}

// Set stores blob under key, replacing any previous value. Snapshots do
// not expire; the session controls their lifecycle explicitly.
func (s *RedisSnapshotStore) Set(ctx context.Context, key string, blob []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("set snapshot: key must not be empty")
	}

	if err := s.client.Set(ctx, s.key(key), blob, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}

	return nil
}

// Remove deletes the blob under key; removing an absent key is not an error.
func (s *RedisSnapshotStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("remove snapshot %q: %w", key, err)
	}

	return nil
}

// Clear deletes every blob under the store's prefix.
func (s *RedisSnapshotStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear snapshots: delete %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("clear snapshots: scan: %w", err)
	}

	return nil
}
