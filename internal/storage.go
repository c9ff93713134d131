package internal

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Store is a string key-value store with a byte usage estimate.
// Set may fail with a *QuotaExceededError; the other operations never fail
// from the caller's point of view.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
	Keys() []string
	// TotalBytes is the sum of key and value lengths over all entries
	TotalBytes() int64
}

// entrySize is the accounting size of one stored pair
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// MemoryStore is an in-process Store with an optional capacity in bytes.
// A zero capacity means unlimited.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	used     int64
	capacity int64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore(capacity int64) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]string),
		capacity: capacity,
	}
}

// Get returns the value stored under key
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key, refusing writes that would exceed the capacity
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + entrySize(key, value)
	if old, ok := m.data[key]; ok {
		next -= entrySize(key, old)
	}
	if m.capacity > 0 && next > m.capacity {
		return &QuotaExceededError{
			Key:       key,
			Required:  entrySize(key, value),
			Available: m.capacity - m.used,
		}
	}

	m.data[key] = value
	m.used = next
	return nil
}

// Remove deletes key if present
func (m *MemoryStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.data, key)
	}
}

// Keys returns all keys in sorted order
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TotalBytes returns the bytes currently used
func (m *MemoryStore) TotalBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

// OpenStore opens a backend from a location string:
// "memory://" for an in-process store, "redis://..." for Redis, and
// "sqlite://path" or a plain file path for SQLite. prefix is the cache key
// prefix; backends that enumerate by prefix only list keys under it.
func OpenStore(location string, capacity int64, prefix string) (Store, func() error, error) {
	noop := func() error { return nil }

	switch {
	case location == "memory://" || location == "memory":
		return NewMemoryStore(capacity), noop, nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		rs, err := OpenRedisStore(location, prefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Close, nil
	case strings.HasPrefix(location, "sqlite://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid store location %q: %w", location, err)
		}
		path := u.Host + u.Path
		return openSQLite(path, capacity)
	case location == "":
		return nil, nil, fmt.Errorf("store location is empty")
	default:
		return openSQLite(location, capacity)
	}
}

func openSQLite(path string, capacity int64) (Store, func() error, error) {
	ss, err := OpenSQLiteStore(path, capacity)
	if err != nil {
		return nil, nil, err
	}
	return ss, ss.Close, nil
}
