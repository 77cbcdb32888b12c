package lock

import (
	"context"
	"hotelbook/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds the hotel lock as a key with a random token and a TTL.
// Only the token owner can delete it.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, hotelID string) (context.Context, Unlock, error) {
	key := lockKey(hotelID)
	token := uuid.NewString()

	var acquiredAt time.Time
	err := acquireWithBackoff(ctx, hotelID, func(ctx context.Context) (bool, error) {
		// Taken before the round trip, so the key expires after this point.
		attempt := time.Now()
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if ok {
			acquiredAt = attempt
		}
		return ok, err
	})
	if err != nil {
		return nil, nil, err
	}

	leaseCtx, cancelLease := leaseContext(ctx, acquiredAt, l.ttl)
	var once sync.Once
	return leaseCtx, func() {
		once.Do(func() {
			cancelLease()
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.log.Warn("Failed to release hotel lock", "hotel_id", hotelID, "key", key, "error", err)
			}
		})
	}, nil
}
