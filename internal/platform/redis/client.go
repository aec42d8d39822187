package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis with a health check for the lockout store backend.
type Client struct {
	*redis.Client
}

// New connects to addr and verifies the connection. Returns nil when addr is
// empty, meaning the caller should fall back to in-process state.
func New(ctx context.Context, addr string) (*Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection is still usable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
