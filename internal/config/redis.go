package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var (
	Redis   *goredis.Client
	redisMu sync.Mutex
)

// ConnectRedis initializes the shared Redis client (idempotent).
func ConnectRedis(addr string) (*goredis.Client, error) {
	redisMu.Lock()
	defer redisMu.Unlock()

	if Redis != nil {
		return Redis, nil
	}
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	Redis = rdb
	return Redis, nil
}

func CloseRedis() {
	redisMu.Lock()
	defer redisMu.Unlock()

	if Redis != nil {
		_ = Redis.Close()
		Redis = nil
	}
}
