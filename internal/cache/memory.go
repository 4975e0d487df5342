package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemorySize = 256

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// entries is the subset of the lru and expirable caches Memory relies on.
type entries interface {
	Get(key string) (memoryEntry, bool)
	Add(key string, value memoryEntry) bool
	Remove(key string) bool
}

// Memory is an in-process store used when no Redis address is configured.
type Memory struct {
	cache entries
	now   func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an LRU store holding at most size entries.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = defaultMemorySize
	}
	// lru.New only errors on non-positive size which we guard above.
	c, _ := lru.New[string, memoryEntry](size)
	return &Memory{cache: c, now: time.Now}
}

// NewSessionMemory creates an unbounded store whose entries are purged at the
// latest maxAge after they were written. Entries are never evicted for space,
// so it suits state that must survive until it expires, such as refresh tokens.
func NewSessionMemory(maxAge time.Duration) *Memory {
	return &Memory{cache: expirable.NewLRU[string, memoryEntry](0, nil, maxAge), now: time.Now}
}

// Get returns a copy of the stored value, or nil when missing or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.cache.Get(key)
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.cache.Remove(key)
		return nil, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.cache.Add(key, entry)
	return nil
}

// Delete removes keys.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.cache.Remove(k)
	}
	return nil
}
