package testutil

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/clinicore/patient-management-service/internal/cache"
)

// MockCache is an in-memory implementation of the cache store for testing.
// TTLs are honored so expiry behavior can be exercised with short durations.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]mockCacheEntry
}

type mockCacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewMockCache creates a new in-memory cache mock
func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]mockCacheEntry)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return "", cache.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = mockCacheEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := m.Get(ctx, key)
	if err == cache.ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MockCache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, string(body), ttl)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *MockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err == cache.ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// KeyCount returns the number of live entries (for test assertions)
func (m *MockCache) KeyCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entry := range m.entries {
		if entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt) {
			count++
		}
	}
	return count
}

// Ensure MockCache implements the cache store contract
var _ cache.Store = (*MockCache)(nil)
