package database

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store is the persistence collaborator: synchronous get/set/remove of string
// values by string key.
//
//go:generate mockgen -source=store.go -destination=../testutil/mock_store.go -package=testutil
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Snapshotter is implemented by stores that can enumerate every key.
type Snapshotter interface {
	All(ctx context.Context) (map[string]string, error)
}

var (
	_ Store       = (*Database)(nil)
	_ Store       = (*MemoryStore)(nil)
	_ Snapshotter = (*Database)(nil)
	_ Snapshotter = (*MemoryStore)(nil)
)

// MemoryStore keeps values in process memory. It backs tests and is the
// fallback when the database file cannot be opened.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) All(context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// OpenOrMemory opens the database at path, degrading to an in-memory store
// when it is unavailable. The returned closer is never nil.
func OpenOrMemory(ctx context.Context, path string, logger *zap.Logger) (Store, func() error) {
	db, err := Open(ctx, path)
	if err != nil {
		if logger != nil {
			logger.Warn("store_unavailable_using_memory",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return NewMemoryStore(), func() error { return nil }
	}
	return db, db.Close
}
