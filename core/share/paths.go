// ABOUTME: Share id generation, owner bucket hashing and canonical object paths
// ABOUTME: Pure functions with no I/O; the persisted layout is stable across versions

package share

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// indexObjectName is the per-user index object inside a bucket
	indexObjectName = "_index.json"

	// globalPrefix holds one location-map object per share id
	globalPrefix = "_global"
)

// NewShareID generates a new share identifier: a base36 millisecond
// timestamp prefix followed by a random suffix. Collision-resistant and
// unguessable-enough for a bearer id of read-only public content.
func NewShareID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return ts + "-" + suffix
}

// shareIDTimestamp extracts the creation instant embedded in a share id.
// Returns false for ids that do not carry a parseable prefix.
func shareIDTimestamp(shareID string) (time.Time, bool) {
	prefix, _, found := strings.Cut(shareID, "-")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 36, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// UserBucket derives a deterministic, non-cryptographic shard name from an
// owner id. Stable for the lifetime of the account; never rehash existing
// users.
func UserBucket(ownerID string) string {
	h := fnv.New32a()
	h.Write([]byte(ownerID))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// BlobPath returns the payload object path for a share
func BlobPath(userBucket, shareID string) string {
	return userBucket + "/" + shareID + ".json"
}

// IndexPath returns the per-user index object path
func IndexPath(userBucket string) string {
	return userBucket + "/" + indexObjectName
}

// GlobalPath returns the global location-map object path for a share
func GlobalPath(shareID string) string {
	return globalPrefix + "/" + shareID + ".json"
}

// shareIDFromGlobalPath inverts GlobalPath; returns false for paths
// outside the global prefix
func shareIDFromGlobalPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, globalPrefix+"/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, ".json")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
