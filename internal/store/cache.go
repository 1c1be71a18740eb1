// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package store

// Cache is the bounded, FIFO-ordered set of object names this node has
// received an OBJECT reply for, whether or not it forwarded that reply on
// (spec.md §3, §4.6). Despite the upstream README's claim of LRU eviction,
// spec.md §9 directs implementers to keep FIFO.
type Cache struct {
	capacity int
	order    []string // oldest first
	present  map[string]struct{}
}

// NewCache returns an empty cache bounded at capacity entries. A capacity
// of zero or less means nothing is ever retained.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		present:  make(map[string]struct{}),
	}
}

// Insert adds name to the cache, evicting the oldest entry first if the
// cache is at capacity. Inserting a name already present is a no-op.
// evicted is the name removed to make room, if any.
func (c *Cache) Insert(name string) (evicted string, didEvict bool) {
	if _, ok := c.present[name]; ok {
		return "", false
	}
	if c.capacity <= 0 {
		return "", false
	}
	if len(c.order) >= c.capacity {
		evicted = c.order[0]
		c.order = c.order[1:]
		delete(c.present, evicted)
		didEvict = true
	}
	c.order = append(c.order, name)
	c.present[name] = struct{}{}
	return evicted, didEvict
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.present[name]
	return ok
}

// Names returns cached names oldest-first.
func (c *Cache) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len reports the number of cached entries.
func (c *Cache) Len() int { return len(c.order) }
