// ABOUTME: Reconciliation sweep removes expired shares and repairs partial writes
// ABOUTME: Rate-limited walk of the global map, user indexes and orphaned blobs

package share

import (
	"context"
	"strings"
	"time"

	"shares-app-api/core/errors"
)

// sweepGrace protects in-flight creates: objects younger than this are
// never treated as orphans, since the three writes of a create land in
// order with gaps between them.
const sweepGrace = time.Hour

// SweepStats reports what one reconciliation pass found and removed
type SweepStats struct {
	// Scanned is the number of global entries examined
	Scanned int

	// Expired is the number of expired shares destroyed
	Expired int

	// PrunedRecords is the number of index records removed because their
	// global entry was gone
	PrunedRecords int

	// OrphanBlobs is the number of unreachable payload blobs removed
	OrphanBlobs int

	// Errors counts failures that were logged and skipped
	Errors int
}

// Sweep reconciles the three persisted structures: it destroys expired
// shares, prunes index records whose global entry is missing, and reclaims
// payload blobs reachable through neither the global map nor an index.
// Store calls are paced by the engine's rate limiter so a sweep cannot
// starve foreground operations.
func (e *Engine) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	live, err := e.sweepGlobal(ctx, &stats)
	if err != nil {
		return stats, err
	}

	paths, err := e.store.List(ctx, "")
	if err != nil {
		return stats, &errors.StoreUnavailableError{Op: "list objects", Err: err}
	}

	if err := e.sweepIndexes(ctx, paths, live, &stats); err != nil {
		return stats, err
	}

	if err := e.sweepOrphanBlobs(ctx, paths, live, &stats); err != nil {
		return stats, err
	}

	e.logger.Info("Sweep finished", map[string]interface{}{
		"scanned":        stats.Scanned,
		"expired":        stats.Expired,
		"pruned_records": stats.PrunedRecords,
		"orphan_blobs":   stats.OrphanBlobs,
		"errors":         stats.Errors,
	})

	return stats, nil
}

// sweepGlobal walks the global map, destroying expired shares and
// returning the set of share ids that remain live
func (e *Engine) sweepGlobal(ctx context.Context, stats *SweepStats) (map[string]bool, error) {
	paths, err := e.store.List(ctx, globalPrefix+"/")
	if err != nil {
		return nil, &errors.StoreUnavailableError{Op: "list global entries", Err: err}
	}

	live := make(map[string]bool, len(paths))
	now := e.now()

	for _, path := range paths {
		shareID, ok := shareIDFromGlobalPath(path)
		if !ok {
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		stats.Scanned++

		entry, err := e.index.loadGlobalEntry(ctx, shareID)
		if err != nil {
			if errors.IsNotFound(err) {
				// Removed by a concurrent delete between list and load
				continue
			}
			stats.Errors++
			e.logger.Warn("Failed to load global entry during sweep", map[string]interface{}{
				"share_id": shareID,
				"error":    err.Error(),
			})
			continue
		}

		if entry.IsExpired(now) {
			e.expire(ctx, shareID, entry)
			stats.Expired++
			continue
		}

		live[shareID] = true
	}

	return live, nil
}

// sweepIndexes prunes records whose global entry is gone. A record without
// a global entry is unreadable and unlistable in any useful sense: creates
// write the global entry before the index, so only deletes and expiry can
// leave one behind.
func (e *Engine) sweepIndexes(ctx context.Context, paths []string, live map[string]bool, stats *SweepStats) error {
	cutoff := e.now().Add(-sweepGrace)

	for _, path := range paths {
		userBucket, ok := bucketFromIndexPath(path)
		if !ok {
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := e.pruneDeadRecords(ctx, userBucket, live, cutoff, stats); err != nil {
			stats.Errors++
			e.logger.Warn("Failed to prune index during sweep", map[string]interface{}{
				"user_bucket": userBucket,
				"error":       err.Error(),
			})
		}
	}

	return nil
}

// pruneDeadRecords rewrites one bucket's index without the records whose
// global entry is missing, under the bucket lock
func (e *Engine) pruneDeadRecords(ctx context.Context, userBucket string, live map[string]bool, cutoff time.Time, stats *SweepStats) error {
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return err
	}

	kept := idx.Records[:0]
	pruned := 0
	for _, record := range idx.Records {
		if live[record.ID] || record.CreatedAt.After(cutoff) {
			kept = append(kept, record)
			continue
		}
		pruned++
	}

	if pruned == 0 {
		return nil
	}

	idx.Records = kept
	if err := e.index.saveUserIndex(ctx, userBucket, idx); err != nil {
		return err
	}

	stats.PrunedRecords += pruned
	return nil
}

// sweepOrphanBlobs reclaims payload blobs whose share id has no global
// entry. Blob age comes from the id's embedded timestamp; blobs younger
// than the grace period, or with no parseable timestamp, are left alone.
func (e *Engine) sweepOrphanBlobs(ctx context.Context, paths []string, live map[string]bool, stats *SweepStats) error {
	cutoff := e.now().Add(-sweepGrace)

	var orphans []string
	for _, path := range paths {
		shareID, ok := blobShareID(path)
		if !ok || live[shareID] {
			continue
		}

		createdAt, ok := shareIDTimestamp(shareID)
		if !ok || createdAt.After(cutoff) {
			continue
		}

		orphans = append(orphans, path)
	}

	if len(orphans) == 0 {
		return nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := e.store.RemoveMany(ctx, orphans); err != nil {
		stats.Errors++
		e.logger.Warn("Failed to remove orphan blobs", map[string]interface{}{
			"count": len(orphans),
			"error": err.Error(),
		})
		return nil
	}

	stats.OrphanBlobs += len(orphans)
	return nil
}

// bucketFromIndexPath recognizes per-user index objects
func bucketFromIndexPath(path string) (string, bool) {
	userBucket, ok := strings.CutSuffix(path, "/"+indexObjectName)
	if !ok || userBucket == "" || strings.Contains(userBucket, "/") {
		return "", false
	}
	return userBucket, true
}

// blobShareID recognizes payload blob objects and extracts their share id
func blobShareID(path string) (string, bool) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == globalPrefix {
		return "", false
	}
	name := parts[1]
	if name == indexObjectName || strings.Contains(name, "/") {
		return "", false
	}
	shareID, ok := strings.CutSuffix(name, ".json")
	if !ok || shareID == "" {
		return "", false
	}
	return shareID, true
}
