package schedule

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/schedgrid/schedgrid/layout"
)

// cacheEntry represents one cached expansion result.
type cacheEntry struct {
	occurrences []layout.Occurrence
	expiresAt   time.Time
	accessedAt  time.Time
}

// ExpansionCache caches per-event expansion results so that hosts
// re-running layout passes on unchanged data skip the RRULE work.
type ExpansionCache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the expansion cache.
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for expansion caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewExpansionCache creates a new expansion cache with the given
// configuration and starts its cleanup goroutine. Call Close when done.
func NewExpansionCache(config CacheConfig) *ExpansionCache {
	cache := &ExpansionCache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey hashes everything the expansion of one event depends on.
func cacheKey(ev Event, rangeStart, rangeEnd time.Time, loc *time.Location) string {
	hasher := sha256.New()

	hasher.Write([]byte(ev.Key))
	hasher.Write([]byte(ev.Start.Format(time.RFC3339Nano)))
	hasher.Write([]byte(ev.End.Format(time.RFC3339Nano)))
	hasher.Write([]byte(rangeStart.Format(time.RFC3339Nano)))
	hasher.Write([]byte(rangeEnd.Format(time.RFC3339Nano)))
	hasher.Write([]byte(loc.String()))

	if ev.AllDay {
		hasher.Write([]byte("allday"))
	}

	hasher.Write([]byte(ev.Recurrence.RRule))
	for _, rdate := range ev.Recurrence.RDates {
		hasher.Write([]byte(rdate.Format(time.RFC3339Nano)))
	}
	for _, exdate := range ev.Recurrence.ExDates {
		hasher.Write([]byte(exdate.Format(time.RFC3339Nano)))
	}
	if ev.Recurrence.RecurrenceID != nil {
		hasher.Write([]byte(ev.Recurrence.RecurrenceID.Format(time.RFC3339Nano)))
	}

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Get retrieves a cached result if it exists and hasn't expired.
func (c *ExpansionCache) Get(ev Event, rangeStart, rangeEnd time.Time, loc *time.Location) ([]layout.Occurrence, bool) {
	key := cacheKey(ev, rangeStart, rangeEnd, loc)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.accessedAt = now
	c.mutex.Unlock()

	return entry.occurrences, true
}

// Set stores an expansion result in the cache.
func (c *ExpansionCache) Set(ev Event, rangeStart, rangeEnd time.Time, loc *time.Location, occurrences []layout.Occurrence) {
	key := cacheKey(ev, rangeStart, rangeEnd, loc)
	now := time.Now()

	entry := &cacheEntry{
		occurrences: occurrences,
		expiresAt:   now.Add(c.ttl),
		accessedAt:  now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and the least recently accessed entries
// while over the limit. Caller holds the write lock.
func (c *ExpansionCache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAccess time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.accessedAt.Before(oldestAccess) {
				oldestKey = key
				oldestAccess = entry.accessedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// cleanupLoop runs periodic cleanup.
func (c *ExpansionCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *ExpansionCache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics.
func (c *ExpansionCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache usage.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
