// ABOUTME: Share engine orchestrates create/read/list/update/delete of shares
// ABOUTME: Enforces the per-owner quota, default TTL and lazy expiration on read

package share

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"shares-app-api/core/domain"
	"shares-app-api/core/errors"
	"shares-app-api/core/interfaces"

	"golang.org/x/time/rate"
)

const (
	// MaxActiveShares is the default cap on simultaneously active shares per owner
	MaxActiveShares = 20

	// DefaultTTL is assigned to shares created without an explicit expiry
	DefaultTTL = 30 * 24 * time.Hour

	// defaultSweepRPS paces blob store calls during a reconciliation sweep
	defaultSweepRPS = 50
)

// ErrViewTrackingUnsupported is returned by TrackView when the configured
// storage backend offers no atomic counter primitive. The engine never
// pretends to persist a view it cannot count durably.
var ErrViewTrackingUnsupported = stderrors.New("view tracking is not supported by the configured storage backend")

// Options tunes the engine; zero values select the documented defaults
type Options struct {
	// MaxActiveShares caps simultaneously active shares per owner
	MaxActiveShares int

	// DefaultTTL is assigned when a share is created without an expiry
	DefaultTTL time.Duration

	// PublicBaseURL prefixes externally visible share URLs
	PublicBaseURL string

	// SweepRPS bounds the rate of store calls during Sweep
	SweepRPS float64

	// Now overrides the clock, for tests
	Now func() time.Time
}

// CreateOptions carries the caller-supplied metadata for CreateOrUpdate
type CreateOptions struct {
	// Title overrides the title derived from the payload
	Title string

	// ExpiresAt sets an explicit expiry; nil assigns now + DefaultTTL
	ExpiresAt *time.Time
}

// Engine persists share artifacts across three structures: the payload
// blob, the owner's index and the global location map. The blob store
// offers no cross-object transactions, so writes follow a fixed
// safety-biased order (blob, then global entry, then index) and every
// index mutation for one bucket is serialized through one lock.
type Engine struct {
	store     interfaces.BlobStore
	counter   interfaces.ViewCounter
	logger    interfaces.Logger
	index     *indexManager
	locks     *bucketLocks
	limiter   *rate.Limiter
	maxActive int
	ttl       time.Duration
	baseURL   string
	now       func() time.Time
}

// NewEngine creates a share engine with the given dependencies
func NewEngine(deps interfaces.Dependencies, opts Options) *Engine {
	if opts.MaxActiveShares <= 0 {
		opts.MaxActiveShares = MaxActiveShares
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.SweepRPS <= 0 {
		opts.SweepRPS = defaultSweepRPS
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		store:     deps.Store,
		counter:   deps.Counter,
		logger:    deps.Logger,
		index:     &indexManager{store: deps.Store},
		locks:     newBucketLocks(),
		limiter:   rate.NewLimiter(rate.Limit(opts.SweepRPS), 1),
		maxActive: opts.MaxActiveShares,
		ttl:       opts.DefaultTTL,
		baseURL:   strings.TrimSuffix(opts.PublicBaseURL, "/"),
		now:       opts.Now,
	}
}

// ShareURL builds the externally visible URL for a share id
func (e *Engine) ShareURL(shareID string) string {
	return e.baseURL + "/shares/" + shareID
}

// CreateOrUpdate persists a share for the owner. An empty shareID creates a
// new share; an existing id replaces the payload and record through the
// same upsert path, which makes retries idempotent at the record level.
//
// The quota check runs before any mutation, so a rejected call performs no
// writes. Writes then follow the safety-biased order blob, global entry,
// index: a crash mid-way leaves a share that is readable but briefly
// missing from the owner's list, never the reverse.
func (e *Engine) CreateOrUpdate(ctx context.Context, ownerID, shareID string, blob *domain.ShareBlob, opts CreateOptions) (*domain.ShareRecord, error) {
	if ownerID == "" {
		return nil, &errors.ValidationError{Field: "ownerId", Message: "cannot be empty"}
	}
	if blob == nil {
		return nil, &errors.ValidationError{Field: "blob", Message: "payload is required"}
	}
	if err := blob.Validate(); err != nil {
		return nil, err
	}

	if shareID == "" {
		shareID = NewShareID()
	}

	userBucket := UserBucket(ownerID)
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return nil, err
	}

	if existing := idx.Find(shareID); existing != nil && existing.Kind != blob.Kind {
		return nil, &errors.ValidationError{Field: "kind", Message: "kind is immutable once created"}
	}

	if countActive(idx, shareID) >= e.maxActive {
		return nil, &errors.QuotaExceededError{OwnerID: ownerID, Limit: e.maxActive}
	}

	now := e.now()
	record := domain.ShareRecord{
		ID:        shareID,
		OwnerID:   ownerID,
		Title:     opts.Title,
		Kind:      blob.Kind,
		CreatedAt: now,
		ExpiresAt: opts.ExpiresAt,
	}
	if record.Title == "" {
		record.Title = domain.DeriveTitle(blob)
	}
	if record.ExpiresAt == nil {
		expiresAt := now.Add(e.ttl)
		record.ExpiresAt = &expiresAt
	}

	payload, err := json.Marshal(blob)
	if err != nil {
		return nil, errors.WrapError(err, "failed to encode blob")
	}

	blobPath := BlobPath(userBucket, shareID)
	if err := e.store.Put(ctx, blobPath, payload); err != nil {
		return nil, &errors.StoreUnavailableError{Op: "put blob", Err: err}
	}

	entry := &domain.GlobalEntry{
		UserBucket: userBucket,
		BlobPath:   blobPath,
		CreatedAt:  record.CreatedAt,
		ExpiresAt:  record.ExpiresAt,
	}
	if err := e.index.saveGlobalEntry(ctx, shareID, entry); err != nil {
		return nil, err
	}

	upsertRecord(idx, record)
	if err := e.index.saveUserIndex(ctx, userBucket, idx); err != nil {
		return nil, err
	}

	e.logger.Info("Share saved", map[string]interface{}{
		"share_id":    shareID,
		"user_bucket": userBucket,
		"kind":        string(record.Kind),
	})

	return &record, nil
}

// Read resolves a share by id for anyone holding the id. Reading an
// expired share lazily destroys it and reports NotFound; the caller
// cannot tell expiry apart from deletion.
func (e *Engine) Read(ctx context.Context, shareID string) (*domain.ShareBlob, error) {
	if shareID == "" {
		return nil, &errors.ValidationError{Field: "id", Message: "cannot be empty"}
	}

	entry, err := e.index.loadGlobalEntry(ctx, shareID)
	if err != nil {
		return nil, err
	}

	if entry.IsExpired(e.now()) {
		e.expire(ctx, shareID, entry)
		return nil, &errors.NotFoundError{Resource: "share", ID: shareID}
	}

	data, err := e.store.Get(ctx, entry.BlobPath)
	if err != nil {
		if stderrors.Is(err, interfaces.ErrBlobNotFound) {
			// Dangling global entry; the sweep reconciles it
			return nil, &errors.NotFoundError{Resource: "share", ID: shareID}
		}
		return nil, &errors.StoreUnavailableError{Op: "get blob", Err: err}
	}

	var blob domain.ShareBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, errors.WrapError(err, "failed to decode blob")
	}

	return &blob, nil
}

// expire performs lazy expiration as a side effect of a read: the blob,
// the global entry and the owner's index record are removed best-effort.
// Failures are logged, never surfaced; the sweep catches anything missed.
func (e *Engine) expire(ctx context.Context, shareID string, entry *domain.GlobalEntry) {
	paths := []string{entry.BlobPath, GlobalPath(shareID)}
	if err := e.store.RemoveMany(ctx, paths); err != nil {
		e.logger.Warn("Failed to remove expired share objects", map[string]interface{}{
			"share_id": shareID,
			"error":    err.Error(),
		})
	}

	if err := e.pruneIndexRecord(ctx, entry.UserBucket, shareID); err != nil {
		e.logger.Warn("Failed to prune expired share from index", map[string]interface{}{
			"share_id":    shareID,
			"user_bucket": entry.UserBucket,
			"error":       err.Error(),
		})
	}

	e.removeCounter(ctx, shareID)

	e.logger.Info("Share expired", map[string]interface{}{
		"share_id": shareID,
	})
}

// pruneIndexRecord removes one record from a bucket's index under the
// bucket lock
func (e *Engine) pruneIndexRecord(ctx context.Context, userBucket, shareID string) error {
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return err
	}
	if !removeRecord(idx, shareID) {
		return nil
	}
	return e.index.saveUserIndex(ctx, userBucket, idx)
}

// List returns the owner's share records verbatim, most-recent-first.
// A user with no shares gets an empty list, never an error. View counts
// are filled from the counter when one is configured.
func (e *Engine) List(ctx context.Context, ownerID string) ([]domain.ShareRecord, error) {
	if ownerID == "" {
		return nil, &errors.ValidationError{Field: "ownerId", Message: "cannot be empty"}
	}

	idx, err := e.index.loadUserIndex(ctx, UserBucket(ownerID))
	if err != nil {
		return nil, err
	}

	records := make([]domain.ShareRecord, len(idx.Records))
	copy(records, idx.Records)

	if e.counter != nil {
		for i := range records {
			views, err := e.counter.Total(ctx, records[i].ID)
			if err != nil {
				e.logger.Debug("Failed to read view count", map[string]interface{}{
					"share_id": records[i].ID,
					"error":    err.Error(),
				})
				continue
			}
			records[i].ViewCount = views
		}
	}

	return records, nil
}

// UpdateMetadata applies a partial update to a record's title and expiry.
// Absent fields are left untouched. An expiry change is propagated into
// the global entry as well, since reads consult the global entry, not the
// index, for expiry.
func (e *Engine) UpdateMetadata(ctx context.Context, ownerID, shareID string, patch domain.RecordPatch) (*domain.ShareRecord, error) {
	if ownerID == "" {
		return nil, &errors.ValidationError{Field: "ownerId", Message: "cannot be empty"}
	}

	userBucket := UserBucket(ownerID)
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return nil, err
	}

	record := idx.Find(shareID)
	if record == nil {
		return nil, &errors.NotFoundError{Resource: "share", ID: shareID}
	}

	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.ExpiresAt != nil {
		record.ExpiresAt = patch.ExpiresAt
	}

	if err := e.index.saveUserIndex(ctx, userBucket, idx); err != nil {
		return nil, err
	}

	if patch.ExpiresAt != nil {
		if err := e.propagateExpiry(ctx, shareID, patch.ExpiresAt); err != nil {
			e.logger.Warn("Failed to propagate expiry to global entry", map[string]interface{}{
				"share_id": shareID,
				"error":    err.Error(),
			})
		}
	}

	updated := *record
	return &updated, nil
}

// propagateExpiry mirrors an expiry change into the global entry so read
// and list never disagree about when a share dies
func (e *Engine) propagateExpiry(ctx context.Context, shareID string, expiresAt *time.Time) error {
	entry, err := e.index.loadGlobalEntry(ctx, shareID)
	if err != nil {
		return err
	}
	entry.ExpiresAt = expiresAt
	return e.index.saveGlobalEntry(ctx, shareID, entry)
}

// Delete destroys one share. Deleting a share that does not exist is a
// success, not an error; deleting twice in a row is safe.
func (e *Engine) Delete(ctx context.Context, ownerID, shareID string) error {
	if ownerID == "" {
		return &errors.ValidationError{Field: "ownerId", Message: "cannot be empty"}
	}
	if shareID == "" {
		return &errors.ValidationError{Field: "id", Message: "cannot be empty"}
	}

	userBucket := UserBucket(ownerID)
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	// Blob and global entry go first; the index update proceeds even if
	// these report already absent
	removeErr := e.store.RemoveMany(ctx, []string{
		BlobPath(userBucket, shareID),
		GlobalPath(shareID),
	})
	if removeErr != nil {
		e.logger.Warn("Failed to remove share objects", map[string]interface{}{
			"share_id": shareID,
			"error":    removeErr.Error(),
		})
	}

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return err
	}
	if removeRecord(idx, shareID) {
		if err := e.index.saveUserIndex(ctx, userBucket, idx); err != nil {
			return err
		}
	}

	e.removeCounter(ctx, shareID)

	if removeErr != nil {
		return &errors.StoreUnavailableError{Op: "remove share objects", Err: removeErr}
	}

	e.logger.Info("Share deleted", map[string]interface{}{
		"share_id": shareID,
	})

	return nil
}

// DeleteAll destroys every share the owner has, plus the index itself, in
// one bulk removal. A reported error means the operation failed as a whole
// even if some objects were removed; the call is safe to retry.
func (e *Engine) DeleteAll(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return &errors.ValidationError{Field: "ownerId", Message: "cannot be empty"}
	}

	userBucket := UserBucket(ownerID)
	lock := e.locks.acquire(userBucket)
	defer lock.Unlock()

	idx, err := e.index.loadUserIndex(ctx, userBucket)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(idx.Records)*2+1)
	for _, record := range idx.Records {
		paths = append(paths, BlobPath(userBucket, record.ID), GlobalPath(record.ID))
		e.removeCounter(ctx, record.ID)
	}
	paths = append(paths, IndexPath(userBucket))

	if err := e.store.RemoveMany(ctx, paths); err != nil {
		return &errors.StoreUnavailableError{Op: "delete all shares", Err: err}
	}

	e.logger.Info("All shares deleted", map[string]interface{}{
		"user_bucket": userBucket,
		"count":       len(idx.Records),
	})

	return nil
}

// TrackView durably counts one view of a live share. Without a configured
// counter the call fails with ErrViewTrackingUnsupported instead of
// silently discarding the write.
func (e *Engine) TrackView(ctx context.Context, shareID string) error {
	if e.counter == nil {
		return ErrViewTrackingUnsupported
	}

	entry, err := e.index.loadGlobalEntry(ctx, shareID)
	if err != nil {
		return err
	}
	if entry.IsExpired(e.now()) {
		return &errors.NotFoundError{Resource: "share", ID: shareID}
	}

	views, err := e.counter.Increment(ctx, shareID)
	if err != nil {
		return &errors.StoreUnavailableError{Op: "track view", Err: err}
	}

	e.logger.Debug("View tracked", map[string]interface{}{
		"share_id": shareID,
		"views":    views,
	})

	return nil
}

// removeCounter discards a share's view counter, best-effort
func (e *Engine) removeCounter(ctx context.Context, shareID string) {
	if e.counter == nil {
		return
	}
	if err := e.counter.Remove(ctx, shareID); err != nil {
		e.logger.Debug("Failed to remove view counter", map[string]interface{}{
			"share_id": shareID,
			"error":    err.Error(),
		})
	}
}
