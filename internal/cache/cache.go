// Package cache keeps jobs listing snapshots in Redis so repeated runs
// against the same platform don't refetch the full collection. The cache is
// strictly optional: every failure degrades to an API load.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aim-ba/ravenlink/internal/model"
)

// Cache provides Redis-backed caching for posting snapshots.
type Cache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a Cache scoped to one
// API base URL. URL format: redis://localhost:6379
func New(redisURL, apiBaseURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Cache{client: client, key: buildKey(apiBaseURL), ttl: ttl}, nil
}

// GetJobs retrieves the cached snapshot. Returns the postings and true when
// a valid entry exists, or nil and false otherwise.
func (c *Cache) GetJobs(ctx context.Context) ([]model.JobPosting, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}

	var postings []model.JobPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, false
	}
	return postings, true
}

// SetJobs stores the snapshot with the configured TTL.
func (c *Cache) SetJobs(ctx context.Context, postings []model.JobPosting) error {
	data, err := json.Marshal(postings)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func buildKey(apiBaseURL string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(apiBaseURL)))
	return fmt.Sprintf("ravenlink:jobs:%x", hash[:8])
}
