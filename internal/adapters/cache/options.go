// Package cache holds rendered chart images keyed by their inputs.
package cache

// Option applies a configuration option to the in-memory image cache.
type Option func(*inMemoryCache)

// WithMaxEntries sets the maximum number of images to keep in memory.
// If n > 0: bounded mode, oldest entry evicted first.
// If n <= 0: unbounded mode.
func WithMaxEntries(n int) Option {
	return func(c *inMemoryCache) {
		c.maxEntries = n
	}
}

// WithObserver sets a callback run after each lookup with the hit result
// and the entry count.
func WithObserver(fn func(hit bool, entries int64)) Option {
	return func(c *inMemoryCache) {
		c.observe = fn
	}
}
