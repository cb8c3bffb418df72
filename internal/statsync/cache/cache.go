package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/devpage/statsync/internal/statsync/models"
)

// Cache is a short-lived TTL cache for processed stats. Refreshes prime it
// so reads right after a sync never observe a stale record.
type Cache struct {
	cache   *gocache.Cache
	enabled bool
}

func New(enabled bool) *Cache {
	return &Cache{
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
		enabled: enabled,
	}
}

func statsKey(userID int64) string {
	return fmt.Sprintf("stats:%d", userID)
}

func (c *Cache) GetStats(userID int64) (*models.ProcessedStats, bool) {
	if !c.enabled {
		return nil, false
	}
	v, ok := c.cache.Get(statsKey(userID))
	if !ok {
		return nil, false
	}
	stats, ok := v.(*models.ProcessedStats)
	return stats, ok
}

func (c *Cache) SetStats(userID int64, stats *models.ProcessedStats) {
	if !c.enabled {
		return
	}
	c.cache.SetDefault(statsKey(userID), stats)
}

func (c *Cache) Invalidate(userID int64) {
	if !c.enabled {
		return
	}
	c.cache.Delete(statsKey(userID))
}
