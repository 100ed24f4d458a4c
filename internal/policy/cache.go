package policy

import (
	"sync"
	"time"
)

// talentCache holds per-user accessible-talent sets with TTL expiry.
// Call Invalidate whenever a user's assignments change, and InvalidateAll
// when the agency's talent list itself changes.
type talentCache struct {
	mu    sync.RWMutex
	cache map[uint]*cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	ids       []uint
	expiresAt time.Time
}

func newTalentCache(ttl time.Duration) *talentCache {
	return &talentCache{cache: make(map[uint]*cacheEntry), ttl: ttl}
}

func (c *talentCache) lookup(userID uint) ([]uint, bool) {
	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.ids, true
}

func (c *talentCache) store(userID uint, ids []uint) {
	c.mu.Lock()
	c.cache[userID] = &cacheEntry{ids: ids, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes one user from the cache.
func (c *talentCache) Invalidate(userID uint) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (c *talentCache) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[uint]*cacheEntry)
	c.mu.Unlock()
}
