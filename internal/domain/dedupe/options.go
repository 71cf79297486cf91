package dedupe

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity sets how many ids are kept before the oldest is evicted.
// Zero or a negative value keeps every id.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithEvictionHook registers fn to run, under the cache lock, for each
// evicted id.
func WithEvictionHook(fn func(id string)) Option {
	return func(c *Cache) {
		c.evicted = fn
	}
}
