package database

import (
	"context"
	"fmt"
	"time"

	"golf-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis and pings it. Callers fall back to in-process
// state when it returns an error.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	if !config.Enabled {
		return nil, fmt.Errorf("redis disabled by configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}
