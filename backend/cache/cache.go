// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Holds rendered catalog payloads and calculator records, swept every cleanup interval

package cache

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = time.Minute

type entry struct {
	data      any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Cache is a thread-safe key/value store where every entry carries its own expiry
type Cache struct {
	store    sync.Map
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose Set entries live for ttl
func New(ttl time.Duration) *Cache {
	return NewWithCleanup(ttl, DefaultCleanupInterval)
}

// NewWithCleanup creates a cache that sweeps expired entries every interval
func NewWithCleanup(ttl, interval time.Duration) *Cache {
	c := &Cache{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.startCleanup(interval)
	return c
}

// TTL returns the default entry lifetime
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Get(key string) (any, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if e.expired(time.Now()) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Store(key, entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// Keys returns the live keys starting with prefix, sorted
func (c *Cache) Keys(prefix string) []string {
	now := time.Now()
	var keys []string
	c.store.Range(func(k, val any) bool {
		key := k.(string)
		if strings.HasPrefix(key, prefix) && !val.(entry).expired(now) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

// Count returns the number of live keys starting with prefix
func (c *Cache) Count(prefix string) int {
	return len(c.Keys(prefix))
}

// Close stops the cleanup goroutine. The cache stays usable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	removed := 0
	c.store.Range(func(key, val any) bool {
		if val.(entry).expired(now) {
			c.store.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		slog.Debug("Cache sweep", "removed", removed)
	}
}
