package loader

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bbernstein/stationdir/internal/table"
)

const defaultLRUSize = 8

// cacheEntry wraps a parsed table with its expiry
type cacheEntry struct {
	Table     table.Table
	ExpiresAt time.Time
}

// tableCache keeps parsed dataset tables in an LRU keyed by resource
// path, each entry expiring after the configured TTL.
type tableCache struct {
	lru    *lru.Cache[string, *cacheEntry]
	ttl    time.Duration
	hits   uint64
	misses uint64
}

func newTableCache(size int, ttl time.Duration) (*tableCache, error) {
	cache, err := lru.New[string, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &tableCache{
		lru: cache,
		ttl: ttl,
	}, nil
}

func (c *tableCache) get(key string) (table.Table, bool) {
	if entry, ok := c.lru.Get(key); ok {
		if time.Now().Before(entry.ExpiresAt) {
			c.hits++
			return entry.Table, true
		}
		// Entry expired, remove it
		c.lru.Remove(key)
	}
	c.misses++
	return table.Table{}, false
}

func (c *tableCache) set(key string, tbl table.Table) {
	c.lru.Add(key, &cacheEntry{
		Table:     tbl,
		ExpiresAt: time.Now().Add(c.ttl),
	})
}

func (c *tableCache) stats() map[string]uint64 {
	return map[string]uint64{
		"hits":   c.hits,
		"misses": c.misses,
	}
}
