// ABOUTME: Per-bucket mutexes serialize index read-modify-write cycles
// ABOUTME: Keyed by user bucket so unrelated owners' operations stay concurrent

package share

import "sync"

// bucketLocks hands out one mutex per user bucket. Every mutation of a
// bucket's index must hold its mutex for the whole load-modify-save cycle;
// this closes the lost-update and quota races of unsynchronized
// read-modify-write.
type bucketLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newBucketLocks() *bucketLocks {
	return &bucketLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// acquire locks the mutex for the given bucket and returns it for unlocking
func (l *bucketLocks) acquire(userBucket string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[userBucket]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userBucket] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
