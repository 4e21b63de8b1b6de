package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	deadline time.Time // zero means no expiry
}

// MemoryStore is an in-process Store with per-key deadlines. It is the
// local-mode backend and the test double for RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
	failing bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

// WithClock swaps the time source; tests use it to move across windows.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

// SetFailing makes every operation behave as if the backend were down.
func (m *MemoryStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// lookup returns a live entry, evicting it when expired. Caller holds mu.
func (m *MemoryStore) lookup(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !e.deadline.IsZero() && !m.now().Before(e.deadline) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, false
	}
	e := m.lookup(key)
	if e == nil {
		return nil, false
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return false
	}
	e := &memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.deadline = m.now().Add(ttl)
	}
	m.entries[key] = e
	return true
}

func (m *MemoryStore) Del(ctx context.Context, keys ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return false
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
	return true
}

func (m *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, errStoreDown
	}
	e := m.lookup(key)
	if e == nil {
		e = &memoryEntry{value: []byte("0")}
		m.entries[key] = e
	}
	n, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, errNotInteger
	}
	n++
	e.value = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return false
	}
	e := m.lookup(key)
	if e == nil {
		return false
	}
	e.deadline = m.now().Add(ttl)
	return true
}

func (m *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, errStoreDown
	}
	e := m.lookup(key)
	switch {
	case e == nil:
		return -2, nil
	case e.deadline.IsZero():
		return -1, nil
	}
	return e.deadline.Sub(m.now()), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStoreDown
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len reports the number of stored keys, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
