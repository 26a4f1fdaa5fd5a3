// ABOUTME: Index manager reads and mutates the per-user index and global location map
// ABOUTME: Read-modify-write against the blob store; callers serialize per owner

package share

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"shares-app-api/core/domain"
	"shares-app-api/core/errors"
	"shares-app-api/core/interfaces"
)

// indexManager handles the two metadata structures: the per-user index
// and the global id-to-location map. It performs no locking itself; the
// engine funnels every mutation for one bucket through one lock.
type indexManager struct {
	store interfaces.BlobStore
}

// loadUserIndex returns the owner's index. A missing index object is an
// empty index, not an error. A present object that fails to parse is a
// CorruptIndexError, never silently treated as empty.
func (m *indexManager) loadUserIndex(ctx context.Context, userBucket string) (*domain.UserIndex, error) {
	data, err := m.store.Get(ctx, IndexPath(userBucket))
	if err != nil {
		if stderrors.Is(err, interfaces.ErrBlobNotFound) {
			return &domain.UserIndex{}, nil
		}
		return nil, &errors.StoreUnavailableError{Op: "load index", Err: err}
	}

	var idx domain.UserIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &errors.CorruptIndexError{Bucket: userBucket, Err: err}
	}

	return &idx, nil
}

// saveUserIndex persists the owner's index
func (m *indexManager) saveUserIndex(ctx context.Context, userBucket string, idx *domain.UserIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return errors.WrapError(err, "failed to encode index")
	}

	if err := m.store.Put(ctx, IndexPath(userBucket), data); err != nil {
		return &errors.StoreUnavailableError{Op: "save index", Err: err}
	}

	return nil
}

// loadGlobalEntry resolves a share id to its storage location
func (m *indexManager) loadGlobalEntry(ctx context.Context, shareID string) (*domain.GlobalEntry, error) {
	data, err := m.store.Get(ctx, GlobalPath(shareID))
	if err != nil {
		if stderrors.Is(err, interfaces.ErrBlobNotFound) {
			return nil, &errors.NotFoundError{Resource: "share", ID: shareID}
		}
		return nil, &errors.StoreUnavailableError{Op: "load global entry", Err: err}
	}

	var entry domain.GlobalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.WrapError(err, "failed to decode global entry")
	}

	return &entry, nil
}

// saveGlobalEntry persists or overwrites the location map entry for a share
func (m *indexManager) saveGlobalEntry(ctx context.Context, shareID string, entry *domain.GlobalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.WrapError(err, "failed to encode global entry")
	}

	if err := m.store.Put(ctx, GlobalPath(shareID), data); err != nil {
		return &errors.StoreUnavailableError{Op: "save global entry", Err: err}
	}

	return nil
}

// removeGlobalEntry deletes the location map entry for a share
func (m *indexManager) removeGlobalEntry(ctx context.Context, shareID string) error {
	if err := m.store.RemoveMany(ctx, []string{GlobalPath(shareID)}); err != nil {
		return &errors.StoreUnavailableError{Op: "remove global entry", Err: err}
	}
	return nil
}

// upsertRecord removes any existing record with the same id, then prepends
// the new record. This defines most-recent-first ordering and serves both
// create and update through one path.
func upsertRecord(idx *domain.UserIndex, record domain.ShareRecord) {
	records := make([]domain.ShareRecord, 0, len(idx.Records)+1)
	records = append(records, record)
	for _, r := range idx.Records {
		if r.ID != record.ID {
			records = append(records, r)
		}
	}
	idx.Records = records
}

// removeRecord filters the record with the given id out of the index.
// Returns true if a record was removed.
func removeRecord(idx *domain.UserIndex, shareID string) bool {
	records := idx.Records[:0]
	removed := false
	for _, r := range idx.Records {
		if r.ID == shareID {
			removed = true
			continue
		}
		records = append(records, r)
	}
	idx.Records = records
	return removed
}

// countActive counts the records in the index, excluding the one being
// replaced so that updating an existing share never counts against its
// own quota
func countActive(idx *domain.UserIndex, excludingID string) int {
	count := 0
	for _, r := range idx.Records {
		if r.ID == excludingID {
			continue
		}
		count++
	}
	return count
}
