// Package namecache interns Windows property names read from an index
// database.
//
// Index columns are named with a numeric prefix ("4447-System_ItemPathDisplay").
// Every decoded property value refers to its property by name, so thousands
// of values would otherwise each carry their own copy of the same few dozen
// strings. The cache maps a raw column name to one shared property name.
//
// Concurrency: 16-shard design with per-shard mutexes.
package namecache

import (
	"container/list"
	"hash/fnv"
	"strings"
	"sync"
)

// DefaultCapacity is the number of names kept when New is given zero.
const DefaultCapacity = 4096

// numShards must be a power of two for fast modulo via bitmask.
const numShards = 16

type cacheEntry struct {
	key  string
	name string
}

// lruCache maps property names to their shared copy.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

func newLRU(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).name, true
}

// store adds key, evicting the least recently used name when full. It
// returns the name now cached for key, which is the earlier one when another
// caller stored it first.
func (c *lruCache) store(key, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).name
	}
	if c.order.Len() >= c.capacity {
		if back := c.order.Back(); back != nil {
			evicted := c.order.Remove(back).(*cacheEntry)
			delete(c.items, evicted.key)
		}
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, name: name})
	return name
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Cache is a sharded interning table. The zero value is not usable; call New.
type Cache struct {
	shards [numShards]*lruCache
}

// New returns a cache holding about capacity names.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	perShard := max(capacity/numShards, 1)
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = newLRU(perShard)
	}
	return c
}

func shardFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck // fnv hash.Write never errors
	return int(h.Sum32() & (numShards - 1))
}

// Intern returns the shared property name for a raw column name.
func (c *Cache) Intern(column string) string {
	name := PropertyName(column)
	s := c.shards[shardFor(name)]
	if shared, ok := s.lookup(name); ok {
		return shared
	}
	owned := strings.Clone(name)
	return s.store(owned, owned)
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// Reset drops every cached name.
func (c *Cache) Reset() {
	for _, s := range c.shards {
		s.reset()
	}
}

// PropertyName strips the numeric column prefix: "4447-System_ItemPathDisplay"
// becomes "System_ItemPathDisplay". Names without a dash are returned as is.
func PropertyName(column string) string {
	if i := strings.IndexByte(column, '-'); i >= 0 {
		return column[i+1:]
	}
	return column
}
