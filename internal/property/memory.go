package property

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps properties in a map. Data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Property
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Property)}
}

func (m *MemoryStore) Create(_ context.Context, p Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[p.ID]; exists {
		return fmt.Errorf("property %s already exists", p.ID)
	}
	m.items[p.ID] = p
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Property, error) {
	m.mu.RLock()
	out := make([]Property, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, p Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return ErrNotFound
	}
	m.items[p.ID] = p
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// sortNewestFirst orders by creation time descending, breaking ties by id so
// the order is stable.
func sortNewestFirst(props []Property) {
	sort.Slice(props, func(i, j int) bool {
		if props[i].CreatedAt.Equal(props[j].CreatedAt) {
			return props[i].ID > props[j].ID
		}
		return props[i].CreatedAt.After(props[j].CreatedAt)
	})
}
