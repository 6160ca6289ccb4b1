package kvstore

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value   []byte
	updated time.Time
}

// MemoryStore is a process-local Store used in tests and when no durable
// backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memEntry)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = memEntry{value: append([]byte(nil), value...), updated: time.Now().UTC()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// UpdatedAt implements Versioned.
func (m *MemoryStore) UpdatedAt(ctx context.Context, key string) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	ts := e.updated
	return &ts, nil
}
