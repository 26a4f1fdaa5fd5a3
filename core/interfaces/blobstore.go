// ABOUTME: BlobStore interface abstracts the underlying object-storage service
// ABOUTME: Defines per-object put/get/remove/list with no cross-object atomicity

package interfaces

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Get when no object exists at the path.
// Implementations may wrap it; callers check with errors.Is.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore defines the contract consumed by the share engine for object
// persistence. Implementations are durable per object but offer no
// compare-and-swap, no transactions and no server-side TTL; any TTL
// semantics are implemented by the engine via stored expiry fields.
//
// Example usage:
//
//	err := store.Put(ctx, "a1b2c3d4/s1.json", payload)
//
//	data, err := store.Get(ctx, "a1b2c3d4/s1.json")
//	if errors.Is(err, interfaces.ErrBlobNotFound) {
//		// handle missing object
//	}
type BlobStore interface {
	// Put stores a payload at the given path, overwriting any existing object
	Put(ctx context.Context, path string, payload []byte) error

	// Get retrieves the payload at the given path.
	// Returns ErrBlobNotFound if no object exists there.
	Get(ctx context.Context, path string) ([]byte, error)

	// RemoveMany deletes the given paths best-effort. Removing an absent
	// path is not an error; partial failures are surfaced, not swallowed.
	RemoveMany(ctx context.Context, paths []string) error

	// List returns the paths of all objects whose path starts with prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
