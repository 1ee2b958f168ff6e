// Package lru provides a generic fixed-capacity LRU cache.
package lru

import (
	"sync"
)

// Cache is a generic thread-safe LRU cache with O(1) operations.
// A doubly-linked list tracks recency and a map provides O(1) lookups.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*entry[K, V]
	head     *entry[K, V] // Most recently used
	tail     *entry[K, V] // Least recently used
	mu       sync.RWMutex

	// Metrics
	hits   int64
	misses int64
}

// entry is a node in the doubly-linked recency list.
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// New creates an LRU cache holding at most capacity entries.
// Capacity must be at least 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V]),
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found, zero value and false otherwise.
// Accessing a key marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[key]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.moveToFront(e)
	return e.value, true
}

// Put adds or updates a value in the cache.
// When the cache is at capacity, the least recently used entry is evicted.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.items[key]; exists {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.items[key] = e
	c.addToFront(e)

	if len(c.items) > c.capacity {
		c.evictTail()
	}
}

// Delete removes a key from the cache.
// Returns true if the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[key]
	if !exists {
		return false
	}

	c.unlink(e)
	delete(c.items, key)
	return true
}

// Len returns the current number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V])
	c.head = nil
	c.tail = nil
}

// Metrics returns cache hit/miss counters.
func (c *Cache[K, V]) Metrics() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// moveToFront marks an existing entry most recently used.
func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

// addToFront links an entry at the head of the recency list.
func (c *Cache[K, V]) addToFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}
	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

// unlink removes an entry from the recency list.
func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

// evictTail drops the least recently used entry.
func (c *Cache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}

	delete(c.items, c.tail.key)

	if c.tail.prev != nil {
		c.tail.prev.next = nil
		c.tail = c.tail.prev
	} else {
		c.head = nil
		c.tail = nil
	}
}
