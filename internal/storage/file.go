package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one directory per tenant id and one <entity>.json file per
// entity inside it. Writes to the same (tenant, entity) pair are serialized
// through a keyed mutex; distinct keys never contend, so a slow tenant cannot
// head-of-line block another.
type FileStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", dir, err)
	}
	return &FileStore{root: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) keyLock(tenantID, entity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tenantID + "/" + entity
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *FileStore) entityPath(tenantID, entity string) string {
	return filepath.Join(s.root, tenantID, entity+".json")
}

func (s *FileStore) Read(_ context.Context, tenantID, entity string) ([]byte, error) {
	l := s.keyLock(tenantID, entity)
	l.Lock()
	defer l.Unlock()
	return s.readLocked(tenantID, entity)
}

func (s *FileStore) readLocked(tenantID, entity string) ([]byte, error) {
	data, err := os.ReadFile(s.entityPath(tenantID, entity))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s/%s: %w", tenantID, entity, err)
	}
	return data, nil
}

func (s *FileStore) Write(_ context.Context, tenantID, entity string, data []byte) error {
	l := s.keyLock(tenantID, entity)
	l.Lock()
	defer l.Unlock()
	return s.writeLocked(tenantID, entity, data)
}

func (s *FileStore) writeLocked(tenantID, entity string, data []byte) error {
	dir := filepath.Join(s.root, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create tenant dir %s: %w", tenantID, err)
	}
	// Write-then-rename so readers never observe a torn document.
	path := s.entityPath(tenantID, entity)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s/%s: %w", tenantID, entity, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: rename %s/%s: %w", tenantID, entity, err)
	}
	return nil
}

func (s *FileStore) Update(_ context.Context, tenantID, entity string, fn func([]byte) ([]byte, error)) error {
	l := s.keyLock(tenantID, entity)
	l.Lock()
	defer l.Unlock()

	current, err := s.readLocked(tenantID, entity)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.writeLocked(tenantID, entity, next)
}

func (s *FileStore) TenantExists(_ context.Context, tenantID string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.root, tenantID))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat tenant %s: %w", tenantID, err)
	}
	return info.IsDir(), nil
}

func (s *FileStore) EnsureTenant(_ context.Context, tenantID string) error {
	if err := os.MkdirAll(filepath.Join(s.root, tenantID), 0o755); err != nil {
		return fmt.Errorf("storage: create tenant %s: %w", tenantID, err)
	}
	return nil
}
