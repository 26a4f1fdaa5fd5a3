// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the share engine

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Store provides durable per-object blob persistence
	Store BlobStore

	// Counter provides atomic view counting; may be nil when the
	// configured backend has no atomic primitive
	Counter ViewCounter

	// Logger provides structured logging
	Logger Logger
}
