// Package core contains the business logic for the Share Storage Engine.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (ShareRecord, ShareBlob, UserIndex, etc.)
// - share: The share engine: create/read/list/update/delete orchestration
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (blob store, view counter, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "shares-app-api/core/interfaces"
//	    "shares-app-api/core/share"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Store:   myStore,   // implements interfaces.BlobStore
//	    Counter: myCounter, // implements interfaces.ViewCounter
//	    Logger:  myLogger,  // implements interfaces.Logger
//	}
//
//	// Create the engine
//	engine := share.NewEngine(deps, share.Options{})
//
//	// Create a share
//	record, err := engine.CreateOrUpdate(ctx, "user-1", "", blob, share.CreateOptions{})
package core
