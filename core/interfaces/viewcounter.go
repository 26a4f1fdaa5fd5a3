// ABOUTME: ViewCounter interface provides durable, atomic per-share view counts
// ABOUTME: Backed by a counter row or INCR primitive, never by read-modify-write

package interfaces

import "context"

// ViewCounter tracks share popularity. Increments must be atomic in the
// backing store; the engine never reads, adds one and writes back.
// Not every blob store can offer this (plain object storage has no atomic
// primitive), so the engine treats the counter as an optional dependency.
type ViewCounter interface {
	// Increment adds one view to the share and returns the new total
	Increment(ctx context.Context, shareID string) (int64, error)

	// Total returns the current view total, zero if never viewed
	Total(ctx context.Context, shareID string) (int64, error)

	// Remove discards the counter for a deleted share
	Remove(ctx context.Context, shareID string) error
}
