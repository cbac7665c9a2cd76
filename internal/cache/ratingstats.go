// Package cache provides a Redis-backed cache for rating statistics.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// RatingStatsCache caches per-user rating statistics with a cache-aside
// pattern. A nil *RatingStatsCache is valid and caches nothing, so
// callers never need to branch on whether Redis is configured.
type RatingStatsCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a cache backed by the given Redis client
func New(client *redis.Client) *RatingStatsCache {
	return &RatingStatsCache{
		client: client,
		prefix: "rating-stats:",
		ttl:    defaultTTL,
	}
}

// Get retrieves cached stats for a user. The second return value
// reports whether there was a hit.
func (c *RatingStatsCache) Get(ctx context.Context, userID string) (*models.RatingStats, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		return nil, false
	}

	var stats models.RatingStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set stores stats for a user
func (c *RatingStatsCache) Set(ctx context.Context, userID string, stats *models.RatingStats) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Invalidate drops the cached stats for a user. Called whenever a
// rating targeting that user is created or flagged.
func (c *RatingStatsCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}

	if err := c.client.Del(ctx, c.prefix+userID).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}
