package cache

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements the Cache interface with a bounded in-process map.
// Expiry is checked lazily on read; a full sweep runs when the map hits its
// size bound. Intended for best-effort memoization (geocode results), not for
// data that must survive.
type MemoryAdapter struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        Clock
}

// NewMemoryAdapter creates a bounded in-memory cache. maxEntries <= 0 means
// unbounded. A nil clock falls back to time.Now.
func NewMemoryAdapter(maxEntries int, now Clock) *MemoryAdapter {
	if now == nil {
		now = time.Now
	}
	return &MemoryAdapter{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        now,
	}
}

// Get retrieves a value, treating expired entries as missing.
func (m *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	return entry.value, nil
}

// Set stores a value. TTL of 0 means no expiration.
func (m *MemoryAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.sweepLocked()
		if len(m.entries) >= m.maxEntries {
			m.evictEarliestLocked()
		}
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes a value by key.
func (m *MemoryAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Ping always succeeds for the in-process cache.
func (m *MemoryAdapter) Ping(ctx context.Context) error {
	return nil
}

// Close releases the backing map.
func (m *MemoryAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of live entries, sweeping expired ones first.
func (m *MemoryAdapter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.entries)
}

func (m *MemoryAdapter) sweepLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// evictEarliestLocked drops the entry closest to expiry. Entries without a
// TTL are only evicted when nothing expiring is left.
func (m *MemoryAdapter) evictEarliestLocked() {
	var victim string
	var victimExpiry time.Time
	for key, entry := range m.entries {
		if victim == "" {
			victim, victimExpiry = key, entry.expiresAt
			continue
		}
		if victimExpiry.IsZero() || (!entry.expiresAt.IsZero() && entry.expiresAt.Before(victimExpiry)) {
			victim, victimExpiry = key, entry.expiresAt
		}
	}
	if victim != "" {
		delete(m.entries, victim)
	}
}
