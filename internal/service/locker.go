package service

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberLocker serializes read-modify-write edits to one member's cycle
// sequence. Two concurrent edits from different admin sessions could
// otherwise interleave their reads and writes and corrupt contiguity.
// Cycle edits and day swaps both go through this single instance so the two
// write paths cannot race each other either.
//
// Entries are never evicted, so the map holds one mutex per member ever
// edited in this process. That stays small for a single gym's roster; add
// eviction if member counts grow past that.
var sequenceLocks = &memberLocker{locks: make(map[primitive.ObjectID]*sync.Mutex)}

type memberLocker struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

// Lock acquires the member's mutex and returns the matching unlock func.
func (l *memberLocker) Lock(memberID primitive.ObjectID) func() {
	l.mu.Lock()
	m, ok := l.locks[memberID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[memberID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
