// ABOUTME: Share domain models represent publicly resolvable share artifacts
// ABOUTME: Defines records, payload blobs and expiration checking for shares

package domain

import (
	"encoding/json"
	"time"
)

// ShareKind identifies the payload type carried by a share
type ShareKind string

const (
	// KindQuote is a shared quote document
	KindQuote ShareKind = "quote"

	// KindTimeline is a shared timeline document
	KindTimeline ShareKind = "timeline"

	// KindCombined is a combined quote+timeline document
	KindCombined ShareKind = "combined"
)

// IsValid reports whether the kind is one of the known share kinds
func (k ShareKind) IsValid() bool {
	switch k {
	case KindQuote, KindTimeline, KindCombined:
		return true
	}
	return false
}

// ShareRecord is the metadata entry stored in the owner's index.
// ID and Kind are immutable once created.
type ShareRecord struct {
	// ID is the opaque, globally unique share identifier
	ID string `json:"id"`

	// OwnerID is the user id of the share's creator
	OwnerID string `json:"ownerId"`

	// Title is optional, derived from the payload at creation time
	Title string `json:"title,omitempty"`

	// Kind is the payload type of the share
	Kind ShareKind `json:"kind"`

	// CreatedAt is when the share was created
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is when the share expires (nil means not yet assigned)
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// ViewCount is advisory; it is filled from the view counter when one
	// is configured, it is not authoritative in the persisted index
	ViewCount int64 `json:"viewCount,omitempty"`
}

// IsExpired checks if the record has expired at the given instant
func (r *ShareRecord) IsExpired(now time.Time) bool {
	if r.ExpiresAt == nil {
		return false
	}
	return now.After(*r.ExpiresAt)
}

// RecordPatch is a partial update to a record's mutable fields.
// Nil fields are left untouched, not nulled.
type RecordPatch struct {
	Title     *string
	ExpiresAt *time.Time
}

// GlobalEntry maps a share id to its storage location so a share can be
// resolved publicly without knowing the owner
type GlobalEntry struct {
	// UserBucket is the owner's storage shard
	UserBucket string `json:"userBucket"`

	// BlobPath is the full path of the payload object
	BlobPath string `json:"blobPath"`

	// CreatedAt mirrors the record's creation time
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt mirrors the record's expiry; reads consult this copy
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// IsExpired checks if the entry's share has expired at the given instant
func (e *GlobalEntry) IsExpired(now time.Time) bool {
	if e.ExpiresAt == nil {
		return false
	}
	return now.After(*e.ExpiresAt)
}

// UserIndex holds one owner's share records, most-recent-first
type UserIndex struct {
	Records []ShareRecord `json:"records"`
}

// Find returns the record with the given id, or nil if absent
func (idx *UserIndex) Find(shareID string) *ShareRecord {
	for i := range idx.Records {
		if idx.Records[i].ID == shareID {
			return &idx.Records[i]
		}
	}
	return nil
}

// titledPayload is the subset of blob data consulted for title derivation
type titledPayload struct {
	Title string `json:"title"`
}

// DeriveTitle extracts a title from the blob payload, falling back to the
// kind name when the payload carries none
func DeriveTitle(blob *ShareBlob) string {
	var p titledPayload
	if err := json.Unmarshal(blob.Data, &p); err == nil && p.Title != "" {
		return p.Title
	}
	return string(blob.Kind)
}
