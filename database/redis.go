package database

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient caches session tokens for fast lookups by the HTTP layer. The
// database row remains the source of truth for session validity; the cache is
// maintained best-effort.
type RedisClient struct {
	client *redis.Client
}

func GetRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting wraps an already constructed client (used by
// tests with miniredis).
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

// SetSession caches token -> userID with the session idle timeout as TTL.
func (r *RedisClient) SetSession(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

// GetSession returns the cached owner of token, or redis.Nil when absent.
func (r *RedisClient) GetSession(ctx context.Context, token string) (uint, error) {
	value, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(userID), nil
}

// DeleteSession drops a token from the cache.
func (r *RedisClient) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}
