// Package dedupe tracks sample event ids so a retried submission is applied
// at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultCapacity bounds the cache when no option overrides it.
const DefaultCapacity = 50000

// Deduper records event ids it has already accepted.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it when
	// it was not. The check and the insert are a single step.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a submission rejected downstream can be retried.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

// Cache is a bounded Deduper. Once full, the oldest recorded id is evicted
// to make room for a new one. A non-positive capacity disables eviction.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[string]*list.Element
	evicted  func(id string)
}

// New builds a Cache configured by opts.
func New(opts ...Option) *Cache {
	c := &Cache{
		capacity: DefaultCapacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeenAndRecord implements Deduper.
func (c *Cache) SeenAndRecord(_ context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; ok {
		return true
	}
	if c.capacity > 0 && c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.index[id] = c.order.PushBack(id)
	return false
}

// Unrecord implements Deduper.
func (c *Cache) Unrecord(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[id]; ok {
		c.order.Remove(el)
		delete(c.index, id)
	}
}

// Size implements Deduper.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(c.order.Len())
}

// must hold c.mu
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	id := c.order.Remove(front).(string)
	delete(c.index, id)
	if c.evicted != nil {
		c.evicted(id)
	}
}

var _ Deduper = (*Cache)(nil)
