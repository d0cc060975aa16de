package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection options.
// - Addr: "redis:6379" or "prod-redis.example.com:6379"
// - Username/Password for ACL-auth setups
// - UseTLS: true for managed Redis providers
type Config struct {
	Addr            string
	Username        string
	Password        string
	DB              int
	UseTLS          bool
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	MaxRetries      int
	MaxRetryBackoff time.Duration
	MinRetryBackoff time.Duration
}

// New returns a configured redis.Client and verifies connectivity with PING.
// Call the returned closer during shutdown.
func New(ctx context.Context, cfg Config) (*redis.Client, func(), error) {
	client := redis.NewClient(options(cfg))

	// Health check
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	closer := func() {
		_ = client.Close()
	}

	return client, closer, nil
}

func options(cfg Config) *redis.Options {
	opts := &redis.Options{
		Addr:            cfg.Addr,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     defaultDuration(cfg.DialTimeout, 3*time.Second),
		ReadTimeout:     defaultDuration(cfg.ReadTimeout, 2*time.Second),
		WriteTimeout:    defaultDuration(cfg.WriteTimeout, 2*time.Second),
		PoolSize:        defaultInt(cfg.PoolSize, 10),
		MinIdleConns:    defaultInt(cfg.MinIdleConns, 2),
		MaxRetries:      defaultInt(cfg.MaxRetries, 3),
		MinRetryBackoff: defaultDuration(cfg.MinRetryBackoff, 50*time.Millisecond),
		MaxRetryBackoff: defaultDuration(cfg.MaxRetryBackoff, 500*time.Millisecond),
	}

	// TLS for production (e.g., managed Redis)
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// OrderCache keeps orders fetched from Konduto so repeated lookups skip the API.
type OrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderCache returns a cache whose entries expire after ttl (5 minutes when ttl <= 0).
func NewOrderCache(client *redis.Client, ttl time.Duration) *OrderCache {
	return &OrderCache{client: client, ttl: defaultDuration(ttl, 5*time.Minute)}
}

func orderKey(orderID string) string {
	return "konduto:order:" + orderID
}

// Get returns the cached order, or false on a miss.
func (c *OrderCache) Get(ctx context.Context, orderID string) (*konduto.Order, bool, error) {
	data, err := c.client.Get(ctx, orderKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached order %s: %w", orderID, err)
	}
	order, err := konduto.FromJSON[konduto.Order](data)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached order %s: %w", orderID, err)
	}
	return order, true, nil
}

// Set stores the order as returned by Konduto. Orders from the API are stored as is,
// without validation.
func (c *OrderCache) Set(ctx context.Context, order *konduto.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, orderKey(order.ID), data, c.ttl).Err()
}

func (c *OrderCache) Delete(ctx context.Context, orderID string) error {
	return c.client.Del(ctx, orderKey(orderID)).Err()
}

func defaultDuration(v, d time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return d
}

func defaultInt(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}
