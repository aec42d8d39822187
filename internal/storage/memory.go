package storage

import (
	"context"
	"sync"
)

// InMemoryStore is the test double for TenantStore. It intentionally favors
// clarity over performance.
type InMemoryStore struct {
	mu      sync.Mutex
	tenants map[string]map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tenants: make(map[string]map[string][]byte)}
}

func (s *InMemoryStore) Read(_ context.Context, tenantID, entity string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entities, ok := s.tenants[tenantID]; ok {
		if data, ok := entities[entity]; ok {
			cp := make([]byte, len(data))
			copy(cp, data)
			return cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) Write(_ context.Context, tenantID, entity string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(tenantID, entity, data)
	return nil
}

func (s *InMemoryStore) writeLocked(tenantID, entity string, data []byte) {
	entities, ok := s.tenants[tenantID]
	if !ok {
		entities = make(map[string][]byte)
		s.tenants[tenantID] = entities
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	entities[entity] = cp
}

func (s *InMemoryStore) Update(_ context.Context, tenantID, entity string, fn func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current []byte
	if entities, ok := s.tenants[tenantID]; ok {
		current = entities[entity]
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	s.writeLocked(tenantID, entity, next)
	return nil
}

func (s *InMemoryStore) TenantExists(_ context.Context, tenantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tenants[tenantID]
	return ok, nil
}

func (s *InMemoryStore) EnsureTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenantID]; !ok {
		s.tenants[tenantID] = make(map[string][]byte)
	}
	return nil
}
