package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"govintel/internal/platform/config"
)

// Client is the connection backing the redis stream audit sink.
type Client struct {
	*redis.Client
}

// New connects to Redis and verifies the connection with a ping. It returns
// nil when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// clientOptions overlays the configured pool and timeout settings on the URL.
// Zero values keep the go-redis defaults.
func clientOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	for _, d := range []struct {
		dst *time.Duration
		src time.Duration
	}{
		{&opts.DialTimeout, cfg.DialTimeout},
		{&opts.ReadTimeout, cfg.ReadTimeout},
		{&opts.WriteTimeout, cfg.WriteTimeout},
	} {
		if d.src > 0 {
			*d.dst = d.src
		}
	}
	return opts, nil
}
