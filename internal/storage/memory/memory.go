// Package memory provides an in-process implementation of
// storage.Storage. Records live in a map guarded by a RWMutex and are
// returned in insertion order. It backs the "memory" driver and the
// handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/google/uuid"
)

type Memory struct {
	mu    sync.RWMutex
	order []string
	store map[string]types.Person
}

func New() *Memory {
	return &Memory{store: make(map[string]types.Person)}
}

func (m *Memory) CreatePerson(_ context.Context, p types.Person) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = uuid.NewString()
	m.store[p.ID] = p
	m.order = append(m.order, p.ID)
	return p.ID, nil
}

func (m *Memory) GetPersonByID(_ context.Context, id string) (types.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.store[id]
	if !ok {
		return types.Person{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *Memory) GetPersons(_ context.Context) ([]types.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Person, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id])
	}
	return out, nil
}

func (m *Memory) UpdatePersonByID(_ context.Context, id string, p types.Person) (storage.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.store[id]
	if !ok {
		return storage.UpdateResult{}, nil
	}
	if current.Equal(p) {
		return storage.UpdateResult{Matched: 1}, nil
	}

	p.ID = id
	m.store[id] = p
	return storage.UpdateResult{Matched: 1, Modified: 1}, nil
}

func (m *Memory) DeletePersonByID(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[id]; !ok {
		return 0, nil
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *Memory) Close(context.Context) error { return nil }
