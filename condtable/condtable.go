// Package condtable provides a table of named, reference-counted condition
// variables, generalizing the teacher's pairing of lockmap.PathLockTable
// and refmap.RefTable: callers wait on "the condition variable for this
// key" without needing to track its lifetime themselves — the table
// allocates an entry on a key's first Wait and reclaims it once the last
// waiter has returned. Signal and Broadcast take no reference on an entry.
package condtable

import (
	"sync"

	"cotask/debug"
	cosync "cotask/sync"
	"cotask/taskctx"
)

type entry struct {
	mu   sync.Mutex
	cv   *cosync.CV[*sync.Mutex]
	nref int
}

// Table maps keys to independent condition variables, creating and
// retiring entries on demand.
type Table[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// New constructs an empty table.
func New[K comparable]() *Table[K] {
	return &Table[K]{entries: make(map[K]*entry)}
}

func (t *Table[K]) acquire(key K) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{cv: cosync.NewCV[*sync.Mutex]()}
		t.entries[key] = e
	}
	e.nref++
	return e
}

func (t *Table[K]) release(key K, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.nref--
	if e.nref < 0 {
		debug.DFatalf("condtable: refcount for key went negative")
	}
	if e.nref == 0 {
		delete(t.entries, key)
	}
}

// Wait blocks the calling task on the condition variable for key until
// pred holds or tc is cancelled, creating the entry if this is its first
// waiter and retiring it again once this call returns. It returns pred's
// final value, false if cancelled before it became true.
func (t *Table[K]) Wait(tc *taskctx.Context, key K, pred func() bool) bool {
	e := t.acquire(key)
	e.mu.Lock()
	ok := e.cv.WaitPred(tc, &e.mu, pred)
	e.mu.Unlock()
	t.release(key, e)
	debug.DPrintf(debug.CONDTABLE, "task %d waited on key %v: %v", tc.ID(), key, ok)
	return ok
}

// Signal wakes one task waiting on key, if any entry for it currently
// exists. A key with no current entry has no waiters by construction, so
// this is a safe no-op.
func (t *Table[K]) Signal(key K) {
	t.mu.Lock()
	e, ok := t.entries[key]
	t.mu.Unlock()
	if !ok {
		return
	}
	e.cv.NotifyOne()
}

// Broadcast wakes every task waiting on key.
func (t *Table[K]) Broadcast(key K) {
	t.mu.Lock()
	e, ok := t.entries[key]
	t.mu.Unlock()
	if !ok {
		return
	}
	e.cv.NotifyAll()
}

// Len reports the number of keys with an active entry, for tests.
func (t *Table[K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
