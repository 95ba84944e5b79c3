package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

// memoryRepository is a goroutine-safe TodoRepository that keeps insertion order.
type memoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Todo
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: make(map[string]domain.Todo)}
}

func (m *memoryRepository) List(context.Context) ([]domain.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	todos := make([]domain.Todo, 0, len(m.order))
	for _, id := range m.order {
		todos = append(todos, m.items[id])
	}
	return todos, nil
}

func (m *memoryRepository) Insert(_ context.Context, title string, completed bool) (string, error) {
	id := repository.NewID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = domain.Todo{ID: id, Title: title, Completed: completed}
	m.order = append(m.order, id)
	return id, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*domain.Todo, error) {
	if !repository.IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	id = strings.ToLower(id)
	m.mu.RLock()
	defer m.mu.RUnlock()
	todo, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &todo, nil
}

func (m *memoryRepository) UpdateByID(_ context.Context, id string, title string, completed bool) (bool, error) {
	if !repository.IsValidID(id) {
		return false, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	id = strings.ToLower(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	m.items[id] = domain.Todo{ID: id, Title: title, Completed: completed}
	return true, nil
}

func (m *memoryRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	if !repository.IsValidID(id) {
		return false, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	id = strings.ToLower(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

var errConnectionLost = errors.New("connection lost")

// failingRepository fails every call, as a store with a dropped connection would.
type failingRepository struct{}

func (failingRepository) List(context.Context) ([]domain.Todo, error) {
	return nil, errConnectionLost
}

func (failingRepository) Insert(context.Context, string, bool) (string, error) {
	return "", errConnectionLost
}

func (failingRepository) FindByID(context.Context, string) (*domain.Todo, error) {
	return nil, errConnectionLost
}

func (failingRepository) UpdateByID(context.Context, string, string, bool) (bool, error) {
	return false, errConnectionLost
}

func (failingRepository) DeleteByID(context.Context, string) (bool, error) {
	return false, errConnectionLost
}

// panickingRepository panics on List to exercise recovery.
type panickingRepository struct{ failingRepository }

func (panickingRepository) List(context.Context) ([]domain.Todo, error) {
	panic("cursor exploded")
}

// fakeDB is a database.Service with a fixed health status.
type fakeDB struct{ status string }

func (f fakeDB) Health(context.Context) map[string]string {
	return map[string]string{"status": f.status}
}

func (fakeDB) Close() error { return nil }
