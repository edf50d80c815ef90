package browser

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists a Storage area in a Redis hash, so localStorage
// survives across runs of the headless client.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to redisURL and stores values in the hash named
// key (for example "myeasyevent:local").
func NewRedisStorage(redisURL, key string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStorage{client: client, key: key}, nil
}

// Get returns the value for key, ErrNoKey when absent.
func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoKey
	}
	return v, err
}

// Set stores value under key.
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	return s.client.HSet(ctx, s.key, key, value).Err()
}

// Remove deletes key.
func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return s.client.HDel(ctx, s.key, key).Err()
}

// Clear drops the whole storage area.
func (s *RedisStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Close closes the Redis connection
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
