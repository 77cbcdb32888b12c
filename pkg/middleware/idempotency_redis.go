package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hotelbook/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix        = "idempotency:"
	idempotencyPendingKeyPrefix = "idempotency:pending:"
)

// RedisIdempotencyStore shares replay entries between replicas. Store
// failures degrade to a cache miss.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl, log: log}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := s.client.Get(ctx, redisIdempotencyKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Idempotency lookup failed", "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn("Discarding unreadable idempotency entry", "error", err)
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	raw, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Failed to encode idempotency entry", "error", err)
		return
	}
	if err := s.client.Set(ctx, redisIdempotencyKey(key), raw, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency entry", "error", err)
	}
	s.Release(ctx, key)
}

// Reserve fails open: with Redis unreachable the request runs unguarded,
// matching how lookups degrade to a miss.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) bool {
	if n, err := s.client.Exists(ctx, redisIdempotencyKey(key)).Result(); err == nil && n > 0 {
		return false
	}
	ok, err := s.client.SetNX(ctx, redisPendingKey(key), "1", pendingTTL).Result()
	if err != nil {
		s.log.Warn("Idempotency reservation failed", "error", err)
		return true
	}
	return ok
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) {
	if err := s.client.Del(ctx, redisPendingKey(key)).Err(); err != nil {
		s.log.Warn("Failed to release idempotency reservation", "error", err)
	}
}

// Stop is a no-op; the Redis client is owned by the caller.
func (s *RedisIdempotencyStore) Stop() {}

// Keys embed the Authorization header, so only a digest goes to Redis.
func redisIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}

func redisPendingKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return idempotencyPendingKeyPrefix + hex.EncodeToString(sum[:])
}
