// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as object storage, caching, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - blobstore/memory: In-memory blob store for tests and single-node setups
// - blobstore/sqlite: SQLite-backed blob store with a durable view counter
// - blobstore/redis: Redis blob store using ReJSON documents
// - blobstore/s3: S3 blob store for any S3-compatible service
// - blobstore/cached: Read-through caching decorator for any blob store
// - logger/logrus: Structured logger implementation
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include timeouts and error handling
//
// # Blob Store Implementations
//
// Memory Store Example:
//
//	store := memory.NewMemoryStore()
//	err := store.Put(ctx, "a1b2c3d4/s1.json", payload)
//	payload, err := store.Get(ctx, "a1b2c3d4/s1.json")
//
// SQLite Store Example:
//
//	store, err := sqlite.NewSQLiteStore("shares.db")
//	defer store.Close()
//
// Redis Store Example:
//
//	store, err := redis.NewRedisStore(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger("info", true)
//	logger.Info("Share saved", map[string]interface{}{
//	    "share_id": "s1",
//	    "kind":     "quote",
//	})
package infrastructure
