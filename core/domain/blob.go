// ABOUTME: ShareBlob domain model is the single payload object stored per share
// ABOUTME: Provides validation and a schema version marker for forward compatibility

package domain

import (
	"encoding/json"

	"shares-app-api/core/errors"
)

// SchemaVersion is the blob schema written by this version of the engine.
// Blobs carrying a newer version are passed through untouched on read.
const SchemaVersion = 1

// ShareBlob is the payload object stored once per share
type ShareBlob struct {
	// Kind must equal the owning record's kind
	Kind ShareKind `json:"kind"`

	// SchemaVersion is a forward-compatibility marker
	SchemaVersion int `json:"schemaVersion"`

	// Data is the opaque structured payload specific to Kind
	Data json.RawMessage `json:"data"`
}

// NewShareBlob creates a validated blob with the current schema version
func NewShareBlob(kind ShareKind, data json.RawMessage) (*ShareBlob, error) {
	blob := &ShareBlob{
		Kind:          kind,
		SchemaVersion: SchemaVersion,
		Data:          data,
	}

	if err := blob.Validate(); err != nil {
		return nil, err
	}

	return blob, nil
}

// Validate checks the blob has a known kind and a non-empty payload
func (b *ShareBlob) Validate() error {
	if !b.Kind.IsValid() {
		return &errors.ValidationError{
			Field:   "kind",
			Message: "must be one of quote, timeline, combined",
		}
	}

	if len(b.Data) == 0 || string(b.Data) == "null" {
		return &errors.ValidationError{
			Field:   "data",
			Message: "payload cannot be empty",
		}
	}

	if !json.Valid(b.Data) {
		return &errors.ValidationError{
			Field:   "data",
			Message: "payload must be valid JSON",
		}
	}

	return nil
}
