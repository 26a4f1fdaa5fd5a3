// ABOUTME: Redis blob store implementation using go-redis and ReJSON
// ABOUTME: Objects are stored as JSON documents; view counts use atomic INCR

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nitishm/go-rejson/v4"
	"github.com/redis/go-redis/v9"

	"shares-app-api/core/interfaces"
	"shares-app-api/pkg/config"
)

// viewKeyPrefix separates counter keys from object keys
const viewKeyPrefix = "views:"

// RedisStore implements the BlobStore and ViewCounter interfaces using Redis
type RedisStore struct {
	client  *redis.Client
	handler *rejson.Handler
}

// NewRedisStore creates a new Redis store instance
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)

	return &RedisStore{
		client:  client,
		handler: handler,
	}, nil
}

// Put stores a payload as a JSON document at the given path
func (s *RedisStore) Put(ctx context.Context, path string, payload []byte) error {
	if _, err := s.handler.JSONSet(path, ".", json.RawMessage(payload)); err != nil {
		return fmt.Errorf("failed to set JSON document: %w", err)
	}
	return nil
}

// Get retrieves the JSON document at the given path
func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, error) {
	res, err := s.handler.JSONGet(path, ".")
	if err != nil {
		if err == redis.Nil {
			return nil, interfaces.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get JSON document: %w", err)
	}

	payload, ok := res.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected JSONGet result type %T", res)
	}
	if len(payload) == 0 {
		return nil, interfaces.ErrBlobNotFound
	}

	return payload, nil
}

// RemoveMany deletes the given paths; absent paths are not an error
func (s *RedisStore) RemoveMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	// DEL returns the number of keys removed; deleting absent keys is fine
	return s.client.Del(ctx, paths...).Err()
}

// List returns the paths of all objects with the given prefix
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string

	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if len(key) >= len(viewKeyPrefix) && key[:len(viewKeyPrefix)] == viewKeyPrefix {
			continue
		}
		paths = append(paths, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	return paths, nil
}

// Increment adds one view atomically and returns the new total
func (s *RedisStore) Increment(ctx context.Context, shareID string) (int64, error) {
	total, err := s.client.Incr(ctx, viewKeyPrefix+shareID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return total, nil
}

// Total returns the current view total, zero if never viewed
func (s *RedisStore) Total(ctx context.Context, shareID string) (int64, error) {
	total, err := s.client.Get(ctx, viewKeyPrefix+shareID).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read views: %w", err)
	}
	return total, nil
}

// Remove discards the counter for a deleted share
func (s *RedisStore) Remove(ctx context.Context, shareID string) error {
	return s.client.Del(ctx, viewKeyPrefix+shareID).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
