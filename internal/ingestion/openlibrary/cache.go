package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache keeps recent catalogue responses in Redis so repeated
// lookups skip the rate-limited upstream entirely. All methods are no-ops
// on a nil receiver, so the client works without Redis configured.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache connects to Redis and verifies the connection.
func NewResponseCache(redisURL string, ttl time.Duration) (*ResponseCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ResponseCache{client: rdb, ttl: ttl}, nil
}

func bookKey(externalID string) string {
	return fmt.Sprintf("catalogue:book:%s", externalID)
}

func authorKey(externalID string) string {
	return fmt.Sprintf("catalogue:author:%s", externalID)
}

// GetBook returns a cached book record, or nil on a miss.
func (c *ResponseCache) GetBook(ctx context.Context, externalID string) (*BookRecord, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, bookKey(externalID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record BookRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// stale or corrupt entry, treat as a miss
		return nil, nil
	}
	return &record, nil
}

// PutBook stores a book record with the cache TTL (best effort).
func (c *ResponseCache) PutBook(ctx context.Context, record *BookRecord) {
	if c == nil || c.client == nil || record == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	c.client.Set(ctx, bookKey(record.ExternalID), raw, c.ttl)
}

// GetAuthor returns a cached author record, or nil on a miss.
func (c *ResponseCache) GetAuthor(ctx context.Context, externalID string) (*AuthorRecord, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, authorKey(externalID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record AuthorRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, nil
	}
	return &record, nil
}

// PutAuthor stores an author record with the cache TTL (best effort).
func (c *ResponseCache) PutAuthor(ctx context.Context, record *AuthorRecord) {
	if c == nil || c.client == nil || record == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	c.client.Set(ctx, authorKey(record.ExternalID), raw, c.ttl)
}

func (c *ResponseCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
