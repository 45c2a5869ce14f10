package repository

// EvictionPolicy selects which entry a full cache drops.
type EvictionPolicy string

// Supported eviction policies.
const (
	// EvictOldest drops the least recently written entry.
	EvictOldest EvictionPolicy = "oldest"
	// EvictNewest drops the most recently written entry.
	EvictNewest EvictionPolicy = "newest"
)

// Option applies a configuration option to the InMemoryCache.
type Option func(*InMemoryCache)

// WithMaxSize bounds the number of cached profiles. Zero or negative means
// unbounded.
func WithMaxSize(n int) Option {
	return func(c *InMemoryCache) {
		c.maxSize = n
	}
}

// WithEvictionPolicy sets the eviction policy for a bounded cache.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(c *InMemoryCache) {
		if p == EvictOldest || p == EvictNewest {
			c.policy = p
		}
	}
}
