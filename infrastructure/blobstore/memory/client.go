// ABOUTME: In-memory blob store implementation for tests and single-node setups
// ABOUTME: Provides thread-safe object storage plus an atomic view counter

package memory

import (
	"context"
	"strings"
	"sync"

	"shares-app-api/core/interfaces"
)

// MemoryStore implements the BlobStore and ViewCounter interfaces using
// in-memory maps
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	views   map[string]int64
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		views:   make(map[string]int64),
	}
}

// Put stores a payload at the given path
func (s *MemoryStore) Put(ctx context.Context, path string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Store a copy so callers cannot mutate it afterwards
	cp := make([]byte, len(payload))
	copy(cp, payload)

	s.mu.Lock()
	s.objects[path] = cp
	s.mu.Unlock()

	return nil
}

// Get retrieves the payload at the given path
func (s *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	payload, ok := s.objects[path]
	s.mu.RUnlock()

	if !ok {
		return nil, interfaces.ErrBlobNotFound
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, nil
}

// RemoveMany deletes the given paths; absent paths are not an error
func (s *MemoryStore) RemoveMany(ctx context.Context, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, path := range paths {
		delete(s.objects, path)
	}
	s.mu.Unlock()

	return nil
}

// List returns the paths of all objects with the given prefix
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path := range s.objects {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// Increment adds one view to the share and returns the new total
func (s *MemoryStore) Increment(ctx context.Context, shareID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[shareID]++
	return s.views[shareID], nil
}

// Total returns the current view total, zero if never viewed
func (s *MemoryStore) Total(ctx context.Context, shareID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[shareID], nil
}

// Remove discards the counter for a deleted share
func (s *MemoryStore) Remove(ctx context.Context, shareID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, shareID)
	return nil
}
