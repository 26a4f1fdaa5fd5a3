// ABOUTME: Read-through caching decorator for any BlobStore implementation
// ABOUTME: Absorbs repeated reads of hot shares without changing store semantics

package cached

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"shares-app-api/core/interfaces"
)

// Store wraps another BlobStore with a short-lived in-process cache.
// Local writes keep the cache coherent; writes from other processes become
// visible after at most the cache TTL, so the TTL must stay small relative
// to share lifetimes.
type Store struct {
	inner interfaces.BlobStore
	cache *cache.Cache
}

// NewCachedStore wraps a BlobStore with a read-through cache
func NewCachedStore(inner interfaces.BlobStore, ttl, cleanupInterval time.Duration) *Store {
	return &Store{
		inner: inner,
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Put writes through to the inner store and refreshes the cache
func (s *Store) Put(ctx context.Context, path string, payload []byte) error {
	if err := s.inner.Put(ctx, path, payload); err != nil {
		return err
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.cache.Set(path, cp, cache.DefaultExpiration)

	return nil
}

// Get serves from the cache when possible, falling back to the inner store
func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	if hit, ok := s.cache.Get(path); ok {
		payload := hit.([]byte)
		cp := make([]byte, len(payload))
		copy(cp, payload)
		return cp, nil
	}

	payload, err := s.inner.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.cache.Set(path, cp, cache.DefaultExpiration)

	return payload, nil
}

// RemoveMany invalidates the cache and delegates to the inner store
func (s *Store) RemoveMany(ctx context.Context, paths []string) error {
	for _, path := range paths {
		s.cache.Delete(path)
	}
	return s.inner.RemoveMany(ctx, paths)
}

// List is never cached; listings feed the sweep and must be fresh
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
