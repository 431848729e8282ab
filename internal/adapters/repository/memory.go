package repository

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps a bounded ring of samples per series.
type MemoryStore struct {
	mu       sync.RWMutex
	series   map[string][]Sample
	capacity int
	closed   bool
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := apply(opts)
	return &MemoryStore{series: make(map[string][]Sample), capacity: s.capacity}
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, series string, values map[string]float64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	cur := m.series[series]
	if n := len(cur); n > 0 && sameValues(cur[n-1].Values, values) {
		return false, nil
	}
	cur = append(cur, Sample{Values: maps.Clone(values), At: at.UTC()})
	if len(cur) > m.capacity {
		cur = slices.Clone(cur[len(cur)-m.capacity:])
	}
	m.series[series] = cur
	return true, nil
}

// Series implements Store.
func (m *MemoryStore) Series(_ context.Context, series string, limit int) ([]Sample, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	cur := m.series[series]
	if len(cur) > limit {
		cur = cur[len(cur)-limit:]
	}
	return slices.Clone(cur), nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.series {
		n += len(s)
	}
	return n
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
