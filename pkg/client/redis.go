package client

import (
	"context"
	"hotelbook/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(log *logger.Logger, addr, password string, db int, connTimeout time.Duration) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	return client
}
