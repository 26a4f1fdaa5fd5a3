package share

import (
	"strings"
	"testing"
	"time"
)

func TestNewShareID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewShareID()
		if id == "" {
			t.Fatal("NewShareID returned empty id")
		}
		if seen[id] {
			t.Fatalf("NewShareID produced duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewShareID_EmbedsTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewShareID()
	after := time.Now().Add(time.Second)

	created, ok := shareIDTimestamp(id)
	if !ok {
		t.Fatalf("shareIDTimestamp could not parse id %s", id)
	}
	if created.Before(before) || created.After(after) {
		t.Errorf("embedded timestamp %v outside [%v, %v]", created, before, after)
	}
}

func TestShareIDTimestamp_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "no separator", id: "abcdef"},
		{name: "non-base36 prefix", id: "!!!-suffix"},
		{name: "empty", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := shareIDTimestamp(tt.id); ok {
				t.Errorf("shareIDTimestamp(%q) should not parse", tt.id)
			}
		})
	}
}

func TestUserBucket_Deterministic(t *testing.T) {
	a := UserBucket("user-123")
	b := UserBucket("user-123")

	if a != b {
		t.Errorf("UserBucket not deterministic: %s != %s", a, b)
	}
	if a == "" {
		t.Error("UserBucket returned empty bucket")
	}
	if strings.Contains(a, "/") {
		t.Errorf("UserBucket %s must not contain path separators", a)
	}
}

func TestUserBucket_DifferentOwners(t *testing.T) {
	if UserBucket("user-a") == UserBucket("user-b") {
		t.Error("UserBucket should differ for different owners")
	}
}

func TestPaths_Layout(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "blob", got: BlobPath("a1b2c3d4", "s1"), want: "a1b2c3d4/s1.json"},
		{name: "index", got: IndexPath("a1b2c3d4"), want: "a1b2c3d4/_index.json"},
		{name: "global", got: GlobalPath("s1"), want: "_global/s1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestShareIDFromGlobalPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		wantID string
		wantOK bool
	}{
		{name: "valid", path: "_global/s1.json", wantID: "s1", wantOK: true},
		{name: "not global", path: "a1b2c3d4/s1.json", wantOK: false},
		{name: "no extension", path: "_global/s1", wantOK: false},
		{name: "empty id", path: "_global/.json", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := shareIDFromGlobalPath(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("shareIDFromGlobalPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("shareIDFromGlobalPath(%q) = %s, want %s", tt.path, id, tt.wantID)
			}
		})
	}
}

func TestBlobShareID(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		wantID string
		wantOK bool
	}{
		{name: "blob", path: "a1b2c3d4/s1.json", wantID: "s1", wantOK: true},
		{name: "index object", path: "a1b2c3d4/_index.json", wantOK: false},
		{name: "global entry", path: "_global/s1.json", wantOK: false},
		{name: "bare path", path: "s1.json", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := blobShareID(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("blobShareID(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("blobShareID(%q) = %s, want %s", tt.path, id, tt.wantID)
			}
		})
	}
}
