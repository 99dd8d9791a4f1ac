// Package redis is the cache tier: short links serialised as JSON under a
// key prefix, each with its own TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shortlink/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix  = "shortlink:"
	connectionTimeout = 5 * time.Second
)

var (
	ErrEmptyAddress = errors.New("redis address is required")
	ErrInvalidTTL   = errors.New("cache ttl must be positive")
)

type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// NewClient connects and pings the server.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type entry struct {
	ID           int64      `json:"id"`
	ShortCode    string     `json:"short_code"`
	OriginalURL  string     `json:"original_url"`
	UserID       int64      `json:"user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	ClickCount   int64      `json:"click_count"`
	LastAccessAt *time.Time `json:"last_access_at,omitempty"`
}

type LinkCache struct {
	client redis.Cmdable
	prefix string
}

func NewLinkCache(client redis.Cmdable, prefix string) *LinkCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &LinkCache{client: client, prefix: prefix}
}

func (c *LinkCache) key(code string) string {
	return c.prefix + code
}

func (c *LinkCache) Set(ctx context.Context, code string, link models.LinkRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}

	raw, err := json.Marshal(entry(link))
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.key(code), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", code, err)
	}
	return nil
}

// Get returns models.ErrUnfound on a cache miss.
func (c *LinkCache) Get(ctx context.Context, code string) (models.LinkRecord, error) {
	raw, err := c.client.Get(ctx, c.key(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.LinkRecord{}, models.ErrUnfound
		}
		return models.LinkRecord{}, fmt.Errorf("failed to get %s: %w", code, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return models.LinkRecord{}, fmt.Errorf("failed to decode cache entry %s: %w", code, err)
	}
	return models.LinkRecord(e), nil
}

func (c *LinkCache) Delete(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.key(code)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", code, err)
	}
	return nil
}

func (c *LinkCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
