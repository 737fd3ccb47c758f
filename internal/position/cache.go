package position

import (
	"sync"
	"time"
)

// DefaultMaxEntries bounds a cache created with a non-positive size.
const DefaultMaxEntries = 4096

// Stats reports cache effectiveness.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Entries  int
	Revision uint64
}

// Cache memoizes positions by query time for a single store revision.
// Entries computed at any other revision are never returned.
type Cache struct {
	mu         sync.Mutex
	revision   uint64
	entries    map[int64]int
	maxEntries int
	hits       uint64
	misses     uint64
}

// NewCache creates a cache holding at most maxEntries positions.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[int64]int),
		maxEntries: maxEntries,
	}
}

// Get returns the cached position for at, if it was stored at revision.
func (c *Cache) Get(revision uint64, at time.Time) (int, bool) {
	if c == nil {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if revision != c.revision {
		c.misses++
		return 0, false
	}
	position, ok := c.entries[at.UnixNano()]
	if !ok {
		c.misses++
		return 0, false
	}
	c.hits++
	return position, true
}

// Put stores a position computed at revision. A revision change drops every
// older entry; a full cache is reset before storing.
func (c *Cache) Put(revision uint64, at time.Time, position int) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if revision != c.revision {
		c.entries = make(map[int64]int)
		c.revision = revision
	}
	if len(c.entries) >= c.maxEntries {
		c.entries = make(map[int64]int)
	}
	c.entries[at.UnixNano()] = position
}

// Clear drops every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]int)
}

// Stats returns a point-in-time view of cache counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Entries:  len(c.entries),
		Revision: c.revision,
	}
}
