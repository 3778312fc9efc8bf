package confidence

import (
	"context"
	"sync"

	"MarketSandbox/internal/store"
)

// Store persists per-ticker confidence values in [0, 1].
type Store interface {
	All(ctx context.Context) (map[string]float64, error)
	Get(ctx context.Context, ticker string) (float64, bool, error)
	// PutAll writes every value in one transaction.
	PutAll(ctx context.Context, values map[string]float64) error
	Close() error
}

// MemoryStore is a Store used when SQLite is not configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]float64)}
}

func (m *MemoryStore) All(_ context.Context) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, ticker string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[store.Key(ticker)]
	return v, ok, nil
}

func (m *MemoryStore) PutAll(_ context.Context, values map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[store.Key(k)] = v
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
