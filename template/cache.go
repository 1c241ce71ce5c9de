package template

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps recently parsed templates. It is safe for concurrent use.
type Cache struct {
	lru *lru.Cache[uint64, *Template]
}

// NewCache returns a cache holding up to size templates. A size below one
// returns nil; a nil *Cache parses on every call.
func NewCache(size int) *Cache {
	if size < 1 {
		return nil
	}
	c, err := lru.New[uint64, *Template](size)
	if err != nil {
		return nil
	}
	return &Cache{lru: c}
}

// Parse returns the parsed form of src, reusing a cached parse when the
// source matches.
func (c *Cache) Parse(src string) *Template {
	if c == nil {
		return Parse(src)
	}
	key := xxhash.Sum64String(src)
	if t, ok := c.lru.Get(key); ok && t.source == src {
		return t
	}
	t := Parse(src)
	c.lru.Add(key, t)
	return t
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every cached template.
func (c *Cache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}
