// Package cache holds rendered chart images keyed by their inputs.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultMaxEntries = 256

// Entry is one rendered image.
type Entry struct {
	Body        []byte
	ContentType string
}

// ImageCache stores rendered images. The dataset is immutable once loaded,
// so an entry stays valid until it is evicted or the cache is purged.
type ImageCache interface {
	// Get returns the entry stored under key.
	Get(ctx context.Context, key string) (Entry, bool)

	// Put stores e under key, replacing any previous entry.
	Put(ctx context.Context, key string, e Entry)

	// Remove drops the entry stored under key.
	Remove(ctx context.Context, key string)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Size() int64
}

// node is one entry in the insertion-ordered list.
type node struct {
	key   string
	entry Entry
	next  *node
}

func (n *node) reset() {
	n.key = ""
	n.entry = Entry{}
	n.next = nil
}

// inMemoryCache keeps entries in a map plus a singly linked list ordered
// from oldest (head) to newest (tail). Nodes are recycled through a pool.
type inMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*node
	head       *node
	tail       *node
	maxEntries int
	size       atomic.Int64
	nodePool   sync.Pool
	observe    func(hit bool, entries int64)
}

// NewInMemory creates an image cache with configuration options.
func NewInMemory(opts ...Option) ImageCache {
	c := &inMemoryCache{
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() any {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(_ context.Context, key string) (Entry, bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	var e Entry
	if ok {
		e = n.entry
	}
	c.mu.Unlock()

	if c.observe != nil {
		c.observe(ok, c.size.Load())
	}
	return e, ok
}

func (c *inMemoryCache) Put(_ context.Context, key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.entry = e
		return
	}
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.entry = e
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.entries[key] = n
	c.size.Add(1)
}

func (c *inMemoryCache) Remove(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)

	var prev *node
	for cur := c.head; cur != nil && cur != n; cur = cur.next {
		prev = cur
	}
	if prev == nil {
		c.head = n.next
	} else {
		prev.next = n.next
	}
	if c.tail == n {
		c.tail = prev
	}
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for cur := c.head; cur != nil; {
		next := cur.next
		cur.reset()
		c.nodePool.Put(cur)
		cur = next
	}
	c.entries = make(map[string]*node)
	c.head, c.tail = nil, nil
	c.size.Store(0)
}

// evictOldest drops the head of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	n := c.head
	if n == nil {
		return
	}
	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}

// Key builds a stable cache key from an output, a format and the input
// values, independent of map iteration order.
func Key(output, format string, values map[string]string) string {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(output)
	b.WriteByte('.')
	b.WriteString(format)
	for _, k := range names {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[k])
	}
	return b.String()
}
