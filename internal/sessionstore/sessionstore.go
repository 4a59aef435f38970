// Package sessionstore configures the cookie-backed login sessions and their
// storage backend.
package sessionstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

const (
	cookieName = "inkwell_session"
	keyPrefix  = "inkwell:sess:"
)

// New builds the session store. A nil storage falls back to Fiber's
// in-process memory storage, which is fine for development and tests but
// loses sessions on restart.
func New(storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     7 * 24 * time.Hour,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// RedisStorage adapts a go-redis client to fiber.Storage so sessions survive
// restarts and are shared across instances when Redis is configured.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to Redis at the given URL ("redis://host:port/db"
// or a bare "host:port") and verifies the connection.
func NewRedisStorage(url string) (*RedisStorage, error) {
	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStorage{client: client}, nil
}

// Get returns the value for the key, or nil when the key does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores the value under the key with the given expiration. A zero
// expiration keeps the key until it is deleted.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), keyPrefix+key, val, exp).Err()
}

// Delete removes the key. Deleting a missing key is not an error.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), keyPrefix+key).Err()
}

// Reset removes every session key, leaving other data in the database alone.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying Redis connection.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
