package metadata

import (
	"context"
	"maps"
	"sync"
)

// MemoryRepository keeps values in a map. It backs tests and sessions run
// without a data directory.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte{}, value...)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.data)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.data), nil
}
