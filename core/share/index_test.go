package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"shares-app-api/core/domain"
	coreerrors "shares-app-api/core/errors"
	"shares-app-api/core/interfaces"
)

// mockBlobStore is a mock implementation of BlobStore backed by func fields
type mockBlobStore struct {
	putFunc        func(ctx context.Context, path string, payload []byte) error
	getFunc        func(ctx context.Context, path string) ([]byte, error)
	removeManyFunc func(ctx context.Context, paths []string) error
	listFunc       func(ctx context.Context, prefix string) ([]string, error)
}

func (m *mockBlobStore) Put(ctx context.Context, path string, payload []byte) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, path, payload)
	}
	return nil
}

func (m *mockBlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, path)
	}
	return nil, interfaces.ErrBlobNotFound
}

func (m *mockBlobStore) RemoveMany(ctx context.Context, paths []string) error {
	if m.removeManyFunc != nil {
		return m.removeManyFunc(ctx, paths)
	}
	return nil
}

func (m *mockBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, prefix)
	}
	return nil, nil
}

func record(id string, createdAt time.Time) domain.ShareRecord {
	return domain.ShareRecord{
		ID:        id,
		OwnerID:   "u1",
		Kind:      domain.KindQuote,
		CreatedAt: createdAt,
	}
}

func TestUpsertRecord_PrependsNewRecord(t *testing.T) {
	now := time.Now()
	idx := &domain.UserIndex{Records: []domain.ShareRecord{record("s1", now)}}

	upsertRecord(idx, record("s2", now.Add(time.Minute)))

	if len(idx.Records) != 2 {
		t.Fatalf("index has %d records, want 2", len(idx.Records))
	}
	if idx.Records[0].ID != "s2" {
		t.Errorf("most recent record is %s, want s2", idx.Records[0].ID)
	}
}

func TestUpsertRecord_ReplacesExistingID(t *testing.T) {
	now := time.Now()
	idx := &domain.UserIndex{Records: []domain.ShareRecord{
		record("s1", now),
		record("s2", now),
	}}

	upsertRecord(idx, record("s2", now.Add(time.Minute)))

	if len(idx.Records) != 2 {
		t.Fatalf("index has %d records, want 2", len(idx.Records))
	}
	if idx.Records[0].ID != "s2" {
		t.Errorf("upserted record should move to the front, got %s", idx.Records[0].ID)
	}
	for i, r := range idx.Records {
		for j := i + 1; j < len(idx.Records); j++ {
			if r.ID == idx.Records[j].ID {
				t.Errorf("duplicate id %s in index", r.ID)
			}
		}
	}
}

func TestRemoveRecord(t *testing.T) {
	now := time.Now()
	idx := &domain.UserIndex{Records: []domain.ShareRecord{
		record("s1", now),
		record("s2", now),
	}}

	if !removeRecord(idx, "s1") {
		t.Error("removeRecord should report removal of an existing record")
	}
	if len(idx.Records) != 1 || idx.Records[0].ID != "s2" {
		t.Errorf("index after removal = %v, want only s2", idx.Records)
	}
	if removeRecord(idx, "missing") {
		t.Error("removeRecord should report false for an absent id")
	}
}

func TestCountActive_ExcludesReplacedID(t *testing.T) {
	now := time.Now()
	idx := &domain.UserIndex{Records: []domain.ShareRecord{
		record("s1", now),
		record("s2", now),
		record("s3", now),
	}}

	tests := []struct {
		name        string
		excludingID string
		want        int
	}{
		{name: "excluding existing id", excludingID: "s2", want: 2},
		{name: "excluding absent id", excludingID: "s9", want: 3},
		{name: "excluding nothing", excludingID: "", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countActive(idx, tt.excludingID); got != tt.want {
				t.Errorf("countActive = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadUserIndex_MissingIsEmpty(t *testing.T) {
	m := &indexManager{store: &mockBlobStore{}}

	idx, err := m.loadUserIndex(context.Background(), "a1b2c3d4")

	if err != nil {
		t.Fatalf("loadUserIndex returned error: %v", err)
	}
	if len(idx.Records) != 0 {
		t.Errorf("missing index should load as empty, got %d records", len(idx.Records))
	}
}

func TestLoadUserIndex_CorruptIsError(t *testing.T) {
	store := &mockBlobStore{
		getFunc: func(ctx context.Context, path string) ([]byte, error) {
			return []byte("{not json"), nil
		},
	}
	m := &indexManager{store: store}

	_, err := m.loadUserIndex(context.Background(), "a1b2c3d4")

	if !coreerrors.IsCorruptIndex(err) {
		t.Errorf("corrupt index should surface CorruptIndexError, got %v", err)
	}
}

func TestLoadUserIndex_StoreFailure(t *testing.T) {
	store := &mockBlobStore{
		getFunc: func(ctx context.Context, path string) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := &indexManager{store: store}

	_, err := m.loadUserIndex(context.Background(), "a1b2c3d4")

	if !coreerrors.IsStoreUnavailable(err) {
		t.Errorf("store failure should surface StoreUnavailableError, got %v", err)
	}
}

func TestLoadGlobalEntry_MissingIsNotFound(t *testing.T) {
	m := &indexManager{store: &mockBlobStore{}}

	_, err := m.loadGlobalEntry(context.Background(), "s1")

	if !coreerrors.IsNotFound(err) {
		t.Errorf("missing global entry should surface NotFoundError, got %v", err)
	}
}
