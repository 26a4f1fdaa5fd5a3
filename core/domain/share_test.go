package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestShareKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind ShareKind
		want bool
	}{
		{name: "quote", kind: KindQuote, want: true},
		{name: "timeline", kind: KindTimeline, want: true},
		{name: "combined", kind: KindCombined, want: true},
		{name: "unknown", kind: "poster", want: false},
		{name: "empty", kind: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShareRecord_IsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-1 * time.Hour)
	future := now.Add(1 * time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{
			name:      "no expiry assigned (nil)",
			expiresAt: nil,
			want:      false,
		},
		{
			name:      "expired (past time)",
			expiresAt: &past,
			want:      true,
		},
		{
			name:      "not expired (future time)",
			expiresAt: &future,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &ShareRecord{
				ID:        "test-id",
				OwnerID:   "u1",
				Kind:      KindQuote,
				CreatedAt: now,
				ExpiresAt: tt.expiresAt,
			}
			if got := record.IsExpired(now.Add(time.Second)); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewShareBlob(t *testing.T) {
	tests := []struct {
		name    string
		kind    ShareKind
		data    json.RawMessage
		wantErr bool
	}{
		{
			name: "valid quote blob",
			kind: KindQuote,
			data: json.RawMessage(`{"title":"Logo Design","total":1200}`),
		},
		{
			name: "valid timeline blob",
			kind: KindTimeline,
			data: json.RawMessage(`{"events":[]}`),
		},
		{
			name:    "invalid kind",
			kind:    "poster",
			data:    json.RawMessage(`{}`),
			wantErr: true,
		},
		{
			name:    "missing payload",
			kind:    KindQuote,
			data:    nil,
			wantErr: true,
		},
		{
			name:    "null payload",
			kind:    KindQuote,
			data:    json.RawMessage(`null`),
			wantErr: true,
		},
		{
			name:    "malformed payload",
			kind:    KindQuote,
			data:    json.RawMessage(`{broken`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := NewShareBlob(tt.kind, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewShareBlob() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if blob.SchemaVersion != SchemaVersion {
					t.Errorf("SchemaVersion = %d, want %d", blob.SchemaVersion, SchemaVersion)
				}
			}
		})
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		blob *ShareBlob
		want string
	}{
		{
			name: "title from payload",
			blob: &ShareBlob{Kind: KindQuote, Data: json.RawMessage(`{"title":"Logo Design"}`)},
			want: "Logo Design",
		},
		{
			name: "falls back to kind name",
			blob: &ShareBlob{Kind: KindTimeline, Data: json.RawMessage(`{"events":[]}`)},
			want: "timeline",
		},
		{
			name: "non-object payload falls back",
			blob: &ShareBlob{Kind: KindCombined, Data: json.RawMessage(`[1,2,3]`)},
			want: "combined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.blob); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIndex_Find(t *testing.T) {
	idx := &UserIndex{Records: []ShareRecord{
		{ID: "s1"},
		{ID: "s2"},
	}}

	if r := idx.Find("s2"); r == nil || r.ID != "s2" {
		t.Errorf("Find(s2) = %v, want record s2", r)
	}
	if r := idx.Find("missing"); r != nil {
		t.Errorf("Find(missing) = %v, want nil", r)
	}
}
