package repository

import (
	"context"
	"sync"

	"github.com/agentflow/agentcore/schema"
)

// Memory is a concurrent-map-backed Repository. Schemas are not cloned —
// callers must not mutate a *schema.Node after Put.
type Memory struct {
	mu    sync.RWMutex
	store map[string]*schema.Node
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{store: make(map[string]*schema.Node)}
}

// Get returns (nil, nil) when id has no stored schema; absence is not an
// error.
func (m *Memory) Get(_ context.Context, id string) (*schema.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[id], nil
}

func (m *Memory) Put(_ context.Context, id string, node *schema.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[id] = node
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.store))
	for id := range m.store {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete is idempotent: deleting an id that isn't stored is not an error.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *Memory) Close() error { return nil }
