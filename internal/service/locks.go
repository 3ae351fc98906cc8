package service

import "sync"

// userLocks is a registry of per-user advisory locks. A single
// conversation turn may fire several mutating tool calls; the lock
// serializes the read-merge-write sequence so two calls for the same
// user cannot interleave a stale read with a write. Different users
// never contend.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[int64]*sync.Mutex)}
}

// Acquire locks the given user's mutex and returns the release func.
// Callers must defer the release so it runs on every exit path.
func (l *userLocks) Acquire(userID int64) func() {
	l.mu.Lock()
	um, ok := l.m[userID]
	if !ok {
		um = &sync.Mutex{}
		l.m[userID] = um
	}
	l.mu.Unlock()

	um.Lock()
	return um.Unlock
}
