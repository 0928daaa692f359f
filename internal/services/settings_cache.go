package services

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/postforge-backend/internal/pkg/logger"
)

// SettingsLoader fetches the authoritative value for a settings key (prompt
// fragments, tone presets). The cache calls it on miss or expiry.
type SettingsLoader func(ctx context.Context, key string) (string, error)

type settingsEntry struct {
	value     string
	expiresAt time.Time
}

// SettingsCache is a TTL read-through cache over prompt settings. Expiry is
// judged against the caller-supplied instant, which keeps behavior
// deterministic under test; production callers pass time.Now().
type SettingsCache struct {
	log    *logger.Logger
	loader SettingsLoader
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]settingsEntry
}

func NewSettingsCache(baseLog *logger.Logger, loader SettingsLoader, ttl time.Duration) *SettingsCache {
	return &SettingsCache{
		log:     baseLog.With("service", "SettingsCache"),
		loader:  loader,
		ttl:     ttl,
		entries: map[string]settingsEntry{},
	}
}

// Get returns the cached value for key, loading it when absent or expired as
// of now. A load failure with a stale entry present serves the stale value.
func (c *SettingsCache) Get(ctx context.Context, key string, now time.Time) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok && now.Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := c.loader(ctx, key)
	if err != nil {
		if ok {
			c.log.Warn("settings load failed, serving stale value", "key", key, "error", err)
			return entry.value, nil
		}
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = settingsEntry{value: value, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops one key, forcing a reload on next Get.
func (c *SettingsCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *SettingsCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = map[string]settingsEntry{}
	c.mu.Unlock()
}
