// Package rediscache backs the capacity day-snapshot cache with Redis.
// Failures degrade to a miss; correctness never depends on the cache.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cache implements capacity.Cache on a Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Redis-backed snapshot cache.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(premisesID uuid.UUID, day shared.Date) string {
	return fmt.Sprintf("capacity:%s:%s", premisesID, day)
}

// Get returns the cached snapshot, treating every error as a miss.
func (c *Cache) Get(ctx context.Context, premisesID uuid.UUID, day shared.Date) (capacity.PremisesDayCapacity, bool) {
	data, err := c.client.Get(ctx, cacheKey(premisesID, day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "capacity cache read failed", slog.String("error", err.Error()))
		}
		return capacity.PremisesDayCapacity{}, false
	}

	var snapshot capacity.PremisesDayCapacity
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.WarnContext(ctx, "capacity cache entry corrupt", slog.String("error", err.Error()))
		return capacity.PremisesDayCapacity{}, false
	}
	return snapshot, true
}

// Set stores the snapshot with the configured TTL. Errors are logged and
// swallowed.
func (c *Cache) Set(ctx context.Context, snapshot capacity.PremisesDayCapacity) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(snapshot.PremisesID, snapshot.Date), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "capacity cache write failed", slog.String("error", err.Error()))
	}
}
