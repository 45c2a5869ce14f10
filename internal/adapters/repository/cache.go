package repository

import (
	"container/list"
	"context"
	"sync"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultMaxSize = 4096
)

// entry is one cached profile plus its position in the eviction order.
type entry struct {
	key     Key
	profile model.Profile
	elem    *list.Element
}

// InMemoryCache implements Store with a bounded map guarded by an RWMutex.
// Reads take the read lock only, so parallel profile lookups never serialize
// on each other; eviction order is maintained on writes.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	order   *list.List // front = next eviction candidate
	maxSize int
	policy  EvictionPolicy
}

// NewInMemoryCache creates a cache with configuration options.
func NewInMemoryCache(opts ...Option) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[Key]*entry),
		order:   list.New(),
		maxSize: defaultMaxSize,
		policy:  EvictOldest,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached profile for key, if present.
func (c *InMemoryCache) Get(ctx context.Context, key Key) (model.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return model.Profile{}, false
	}
	metrics.RecordCacheHit()
	return e.profile, true
}

// Put stores a profile under key, evicting per policy when full.
func (c *InMemoryCache) Put(ctx context.Context, key Key, p model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.profile = p
		c.order.MoveToBack(e.elem)
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evict()
	}

	e := &entry{key: key, profile: p}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
	metrics.UpdateCacheSize(len(c.entries))
}

// evict removes one entry according to the configured policy. Caller holds
// the write lock.
func (c *InMemoryCache) evict() {
	var victim *list.Element
	switch c.policy {
	case EvictNewest:
		victim = c.order.Back()
	default: // EvictOldest
		victim = c.order.Front()
	}
	if victim == nil {
		return
	}
	e := victim.Value.(*entry)
	c.order.Remove(victim)
	delete(c.entries, e.key)
	metrics.RecordCacheEviction()
}

// Len returns the number of cached profiles.
func (c *InMemoryCache) Len(ctx context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every cached profile.
func (c *InMemoryCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.order.Init()
	metrics.UpdateCacheSize(0)
}
