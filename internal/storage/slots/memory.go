package slots

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[key]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = clone(value)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]byte, len(r.items))
	for k, v := range r.items {
		result[k] = clone(v)
	}
	return result, nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string][]byte)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
