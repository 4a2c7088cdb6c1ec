package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storyshare-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const discoverKey = "feed__discover"

// DiscoverCache keeps one cached copy of the cold-start discovery feed.
// The ranking is viewer-independent, so a short-lived shared entry spares
// the store a sort over every post on each cold-start request.
type DiscoverCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDiscoverCache creates a discovery feed cache
func NewDiscoverCache(client *redis.Client, ttl time.Duration) *DiscoverCache {
	return &DiscoverCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached feed and whether a fresh entry was found.
// Cache trouble is never an error to the caller, only a miss.
func (c *DiscoverCache) Get(ctx context.Context) ([]models.FeedPost, bool) {
	data, err := c.client.Get(ctx, discoverKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Failed to read discovery feed cache")
		}
		return nil, false
	}

	var posts []models.FeedPost
	if err := json.Unmarshal(data, &posts); err != nil {
		log.Warn().Err(err).Msg("Failed to decode cached discovery feed")
		return nil, false
	}
	return posts, true
}

// Set stores the feed with the configured TTL, best-effort
func (c *DiscoverCache) Set(ctx context.Context, posts []models.FeedPost) {
	data, err := json.Marshal(posts)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode discovery feed")
		return
	}
	if err := c.client.Set(ctx, discoverKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to write discovery feed cache")
	}
}
