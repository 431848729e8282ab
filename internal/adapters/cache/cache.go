// Package cache provides a size-bounded cache whose entries expire after a fixed TTL.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 16

// TTL is a concurrency-safe LRU cache with per-entry expiry.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// Option configures a TTL cache.
type Option func(*settings)

type settings struct {
	size int
}

// WithSize bounds the number of entries.
func WithSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.size = n
		}
	}
}

// NewTTL creates a cache whose entries live for ttl.
func NewTTL[K comparable, V any](ttl time.Duration, opts ...Option) *TTL[K, V] {
	s := settings{size: defaultSize}
	for _, opt := range opts {
		opt(&s)
	}
	return &TTL[K, V]{
		lru: expirable.NewLRU[K, V](s.size, nil, ttl),
	}
}

// Get returns a live entry.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, restarting its TTL.
func (c *TTL[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}
