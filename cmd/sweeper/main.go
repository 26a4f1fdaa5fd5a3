// ABOUTME: Main entry point for the share storage reconciliation sweeper
// ABOUTME: Wires config, logging and the storage backend, then runs one sweep

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shares-app-api/core/interfaces"
	"shares-app-api/core/share"
	"shares-app-api/infrastructure/blobstore/cached"
	"shares-app-api/infrastructure/blobstore/memory"
	"shares-app-api/infrastructure/blobstore/redis"
	"shares-app-api/infrastructure/blobstore/s3"
	"shares-app-api/infrastructure/blobstore/sqlite"
	logruslogger "shares-app-api/infrastructure/logger/logrus"
	"shares-app-api/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	logger.Info("Starting share sweeper", map[string]interface{}{
		"storage_type": cfg.Storage.Type,
		"sweep_rps":    cfg.Share.SweepRPS,
	})

	// Create the storage backend
	store, counter, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to create storage backend", map[string]interface{}{
			"storage_type": cfg.Storage.Type,
			"error":        err.Error(),
		})
		os.Exit(1)
	}

	// Optional in-process read-through cache
	if cfg.Storage.CacheTTL > 0 {
		ttl := time.Duration(cfg.Storage.CacheTTL) * time.Second
		store = cached.NewCachedStore(store, ttl, 2*ttl)
		logger.Info("Read-through cache enabled", map[string]interface{}{
			"ttl_seconds": cfg.Storage.CacheTTL,
		})
	}

	// Create the share engine
	engine := share.NewEngine(interfaces.Dependencies{
		Store:   store,
		Counter: counter,
		Logger:  logger,
	}, share.Options{
		MaxActiveShares: cfg.Share.MaxActiveShares,
		DefaultTTL:      time.Duration(cfg.Share.DefaultTTLDays) * 24 * time.Hour,
		PublicBaseURL:   cfg.Share.PublicBaseURL,
		SweepRPS:        float64(cfg.Share.SweepRPS),
	})

	// Cancel the sweep on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := engine.Sweep(ctx)
	if err != nil {
		logger.Error("Sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Sweep completed", map[string]interface{}{
		"scanned":        stats.Scanned,
		"expired":        stats.Expired,
		"pruned_records": stats.PrunedRecords,
		"orphan_blobs":   stats.OrphanBlobs,
		"errors":         stats.Errors,
	})
}

// buildStorage creates the configured blob store and, when the backend
// supports atomic increments, its view counter
func buildStorage(cfg *config.Config, logger interfaces.Logger) (interfaces.BlobStore, interfaces.ViewCounter, error) {
	switch cfg.Storage.Type {
	case "sqlite":
		client, err := sqlite.NewSQLiteStore(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil

	case "redis":
		client, err := redis.NewRedisStore(cfg.Storage.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis storage", map[string]interface{}{
			"address": cfg.Storage.Redis.Address,
		})
		return client, client, nil

	case "s3":
		client, err := s3.NewS3Store(cfg.Storage.S3)
		if err != nil {
			return nil, nil, err
		}
		// S3 has no atomic increment; view tracking stays disabled
		logger.Info("Using S3 storage", map[string]interface{}{
			"bucket": cfg.Storage.S3.Bucket,
		})
		return client, nil, nil

	default:
		client := memory.NewMemoryStore()
		logger.Info("Using memory storage", nil)
		return client, client, nil
	}
}
