package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryProvider is a TTL-bounded in-process cache for parse results. Entries
// are evicted lazily on read and by a coarse size sweep on write; parse
// results are cheap to rebuild, so precision eviction is not worth the
// bookkeeping.
type MemoryProvider struct {
	mu         sync.RWMutex
	data       map[string]memoryItem
	maxEntries int
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryProvider builds a memory cache holding at most maxEntries values.
// maxEntries <= 0 means unbounded.
func NewMemoryProvider(maxEntries int) *MemoryProvider {
	return &MemoryProvider{
		data:       make(map[string]memoryItem),
		maxEntries: maxEntries,
	}
}

// Get returns the cached value or ErrCacheMiss. Expired entries are removed
// on access.
func (m *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	it, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return it.value, nil
}

// Set stores a value with an optional TTL (zero means no expiry).
func (m *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.data[key] = memoryItem{value: value, expiresAt: expires}
	return nil
}

// SetNX stores the value only when the key is absent or expired.
func (m *MemoryProvider) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.data[key]; ok {
		if it.expiresAt.IsZero() || time.Now().Before(it.expiresAt) {
			return false, nil
		}
	}

	m.sweepLocked()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.data[key] = memoryItem{value: value, expiresAt: expires}
	return true, nil
}

// Del removes an entry.
func (m *MemoryProvider) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close releases the map.
func (m *MemoryProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]memoryItem)
	return nil
}

// sweepLocked drops expired entries, then, if still over the cap, clears the
// whole map. Callers hold the write lock.
func (m *MemoryProvider) sweepLocked() {
	if m.maxEntries <= 0 || len(m.data) < m.maxEntries {
		return
	}
	now := time.Now()
	for k, it := range m.data {
		if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
			delete(m.data, k)
		}
	}
	if len(m.data) >= m.maxEntries {
		m.data = make(map[string]memoryItem)
	}
}
