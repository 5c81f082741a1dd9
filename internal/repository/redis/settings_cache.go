package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/services"

	goredis "github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "docspace:room_settings:"

// SettingsCache decorates a RoomSettingsResolver with a redis read-through
// cache. Redis failures are logged and fall through to the wrapped resolver.
type SettingsCache struct {
	next   services.RoomSettingsResolver
	rdb    KeyValueClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewSettingsCache wraps next with a cache whose entries live for ttl
func NewSettingsCache(next services.RoomSettingsResolver, rdb KeyValueClient, ttl time.Duration, logger *slog.Logger) *SettingsCache {
	return &SettingsCache{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func settingsKey(tenantID, roomID string) string {
	return fmt.Sprintf("%s%s:%s", settingsKeyPrefix, tenantID, roomID)
}

// Settings returns cached settings, loading and storing them on a miss
func (c *SettingsCache) Settings(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error) {
	key := settingsKey(tenantID, roomID)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s models.RoomSettings
		if jsonErr := json.Unmarshal(data, &s); jsonErr == nil {
			return &s, nil
		}
		c.logger.Warn("discarding unreadable cached room settings", "key", key)
	case errors.Is(err, goredis.Nil):
	default:
		c.logger.Warn("room settings cache read failed", "key", key, "error", err)
	}

	s, err := c.next.Settings(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal room settings: %w", err)
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("room settings cache write failed", "key", key, "error", err)
	}
	return s, nil
}

// IsIndexingEnabled reports whether the room uses manual ordering
func (c *SettingsCache) IsIndexingEnabled(ctx context.Context, tenantID, roomID string) (bool, error) {
	s, err := c.Settings(ctx, tenantID, roomID)
	if err != nil {
		return false, err
	}
	return s.Indexing, nil
}

// Invalidate drops the cached entry and forwards to the wrapped resolver
func (c *SettingsCache) Invalidate(ctx context.Context, tenantID, roomID string) {
	key := settingsKey(tenantID, roomID)
	if err := c.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
		c.logger.Warn("room settings cache invalidation failed", "key", key, "error", err)
	}
	c.next.Invalidate(ctx, tenantID, roomID)
}
