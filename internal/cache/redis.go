package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses redisURL, connects and pings.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}
	return client, nil
}

// HealthCheck adapts a redis client to the Ping(ctx) error shape used by
// the health endpoint.
type HealthCheck struct {
	Client *redis.Client
}

func (h HealthCheck) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx).Err()
}
