package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

const (
	listingKey = "sweets:listing"
	listingTTL = 5 * time.Minute
)

// ListingCache caches the public sweets listing in Redis. Every cache failure
// degrades to a store read; none is surfaced to the caller.
type ListingCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewListingCache creates a ListingCache wrapping the given Redis client.
func NewListingCache(client *redis.Client, log zerolog.Logger) *ListingCache {
	return &ListingCache{client: client, log: log}
}

// GetSweets returns the cached listing and whether it was present.
func (c *ListingCache) GetSweets(ctx context.Context) ([]domain.Sweet, bool) {
	raw, err := c.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("listing cache read failed")
		}
		return nil, false
	}

	var sweets []domain.Sweet
	if err := json.Unmarshal(raw, &sweets); err != nil {
		c.log.Warn().Err(err).Msg("listing cache entry corrupt, dropping")
		c.Invalidate(ctx)
		return nil, false
	}
	return sweets, true
}

// SetSweets stores the listing with the configured TTL.
func (c *ListingCache) SetSweets(ctx context.Context, sweets []domain.Sweet) {
	raw, err := json.Marshal(sweets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listingKey, raw, listingTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache write failed")
	}
}

// Invalidate drops the cached listing. Called after every inventory mutation.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
