// Package sync implements the cooperative condition-variable primitive: a
// FIFO wait list, the wait-strategy protocol that closes the "release lock,
// enqueue, sleep" race, and the generic condition variable built on top of
// both.
package sync

import (
	"container/list"
	"sync"
	"sync/atomic"

	"cotask/debug"
	"cotask/taskctx"
)

// WaitList is an intrusive FIFO queue of parked tasks, guarded by its own
// internal lock. It is the rendering of the distilled spec's WaitList: the
// thing a CvWaitStrategy appends a task's token to before the task
// suspends, and the thing NotifyOne/NotifyAll pop tokens from to hand wake
// rights to a specific task.
//
// There is no third-party intrusive list in the dependency surface this
// module draws from, and container/list is the standard, idiomatic choice
// for an ordered FIFO of opaque tokens in Go; see DESIGN.md for the full
// justification.
type WaitList struct {
	mu       sync.Mutex
	waiters  *list.List
	sleepies atomic.Int64
	scoped   atomic.Int64
}

// NewWaitList constructs an empty wait list.
func NewWaitList() *WaitList {
	return &WaitList{waiters: list.New()}
}

// Lock is a held handle on a WaitList's internal lock. A CvWaitStrategy
// acquires one in its constructor — before releasing the condition
// variable's own mutex — and releases it from AfterAsleep, once the task's
// token is safely appended. Holding this lock across that window is what
// makes "append to the wait list" and "release the external mutex"
// observable as a single atomic step from a notifier's point of view.
type Lock struct {
	wl     *WaitList
	locked bool
}

// Acquire locks the wait list and returns a handle that must be released
// exactly once.
func (wl *WaitList) Acquire() *Lock {
	wl.mu.Lock()
	return &Lock{wl: wl, locked: true}
}

// Release unlocks the wait list. It is idempotent; releasing an
// already-released Lock is a no-op.
func (l *Lock) Release() {
	if !l.locked {
		return
	}
	l.locked = false
	l.wl.mu.Unlock()
}

// WaitersScopeCounter is a short-lived token proving that some task is in
// the process of waiting on this list — acquired before a task's AfterAsleep
// appends its token, released after BeforeAwake removes it. A WaitList (or
// the condition variable wrapping it) must never be destroyed while this
// count is nonzero; see WaitersScopeCount and the Close checks in condvar.go.
type WaitersScopeCounter struct {
	wl *WaitList
}

// EnterScope takes a waiters-scope token. Callers must call Leave exactly
// once on the returned token.
func (wl *WaitList) EnterScope() WaitersScopeCounter {
	wl.scoped.Add(1)
	return WaitersScopeCounter{wl: wl}
}

// Leave releases the waiters-scope token.
func (c WaitersScopeCounter) Leave() {
	c.wl.scoped.Add(-1)
}

// WaitersScopeCount returns the number of in-flight waiters-scope tokens.
// A destructor that observes a nonzero count here has been called while a
// task is still mid-wait, which is a contract violation.
func (wl *WaitList) WaitersScopeCount() int64 {
	return wl.scoped.Load()
}

// token is the value stored in the intrusive list: the task waiting and its
// list element, so Remove can be O(1) and idempotent.
type token struct {
	tc   *taskctx.Context
	elem *list.Element
}

// Append adds tc to the back of the wait list. lock must already be held by
// the caller (normally a CvWaitStrategy's constructor). It returns a token
// that must later be passed to Remove exactly once, though Remove is itself
// idempotent against double-removal.
func (wl *WaitList) Append(lock *Lock, tc *taskctx.Context) *token {
	if !lock.locked || lock.wl != wl {
		debug.DFatalf("sync: Append called without holding this WaitList's lock")
	}
	for e := wl.waiters.Front(); e != nil; e = e.Next() {
		if e.Value.(*token).tc == tc {
			debug.DFatalf("sync: task %d is already present in this wait list", tc.ID())
		}
	}
	tok := &token{tc: tc}
	tok.elem = wl.waiters.PushBack(tok)
	wl.sleepies.Add(1)
	debug.DPrintf(debug.WAITLIST, "task %d appended, %d waiting", tc.ID(), wl.sleepies.Load())
	return tok
}

// Remove removes tok from the wait list if it is still present. It is
// idempotent: calling it more than once, or after the token was already
// popped by WakeupOne/WakeupAll, is a no-op. lock must already be held.
func (wl *WaitList) Remove(lock *Lock, tok *token) {
	if !lock.locked || lock.wl != wl {
		debug.DFatalf("sync: Remove called without holding this WaitList's lock")
	}
	if tok.elem == nil {
		return
	}
	wl.waiters.Remove(tok.elem)
	tok.elem = nil
	wl.sleepies.Add(-1)
}

// WakeupOne pops the task at the front of the list, if any, and delivers it
// a WaitList wakeup. lock must already be held. It reports whether a task
// was woken.
func (wl *WaitList) WakeupOne(lock *Lock) bool {
	if !lock.locked || lock.wl != wl {
		debug.DFatalf("sync: WakeupOne called without holding this WaitList's lock")
	}
	front := wl.waiters.Front()
	if front == nil {
		return false
	}
	tok := front.Value.(*token)
	wl.waiters.Remove(front)
	tok.elem = nil
	wl.sleepies.Add(-1)
	tok.tc.DeliverWaitListWakeup()
	return true
}

// WakeupAll pops every task currently on the list and delivers each a
// WaitList wakeup. lock must already be held. It returns the number of
// tasks woken.
func (wl *WaitList) WakeupAll(lock *Lock) int {
	if !lock.locked || lock.wl != wl {
		debug.DFatalf("sync: WakeupAll called without holding this WaitList's lock")
	}
	n := 0
	for front := wl.waiters.Front(); front != nil; front = wl.waiters.Front() {
		tok := front.Value.(*token)
		wl.waiters.Remove(front)
		tok.elem = nil
		tok.tc.DeliverWaitListWakeup()
		n++
	}
	wl.sleepies.Store(0)
	return n
}

// SleepiesCount is a fast, lock-free approximation of the number of tasks
// currently parked on this list. NotifyOne and NotifyAll use it to skip
// acquiring the wait list's lock entirely when nobody is waiting.
func (wl *WaitList) SleepiesCount() int64 {
	return wl.sleepies.Load()
}
