package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps the current entry per community in process memory.
// Useful for tests and single-process development setups.
type MemoryStore struct {
	mu     sync.RWMutex
	latest map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{latest: make(map[string]*Entry)}
}

// GetLatest implements Store.
func (m *MemoryStore) GetLatest(ctx context.Context, community string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.latest[community]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, entry *Entry) error {
	copied := *entry
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest[entry.Community] = &copied
	return nil
}
