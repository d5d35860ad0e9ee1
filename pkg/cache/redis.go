package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Address  string
	Username string
	Password string
	Database int
}

type CacheClient interface {
	Client() *redis.Client
	Close() error
}

type cacheClient struct {
	client *redis.Client
}

// NewCacheClient creates a new caching client.
func NewCacheClient(opts Options) CacheClient {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.Database,
	})

	return &cacheClient{
		client: client,
	}
}

// Client returns the underlying redis client.
func (c *cacheClient) Client() *redis.Client {
	return c.client
}

// Close closes the caching client.
func (c *cacheClient) Close() error {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			return fmt.Errorf("failed to close caching client: %w", err)
		}
	}
	return nil
}
