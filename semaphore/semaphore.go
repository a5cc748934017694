// Package semaphore provides a counting semaphore built directly on
// sync.CV, generalizing the teacher's SemClnt binary semaphore (which
// parked on a 9p file watch) into an in-process primitive parked on the
// condition-variable primitive this module implements.
package semaphore

import (
	"sync"

	cosync "cotask/sync"

	"cotask/debug"
	"cotask/taskctx"
)

// Semaphore is a counting semaphore. Down blocks while the count is zero;
// Up increments the count and wakes one waiter, mirroring the teacher's
// SemClnt.Down/Up naming.
type Semaphore struct {
	mu    sync.Mutex
	cv    *cosync.CV[*sync.Mutex]
	count int
}

// New constructs a semaphore with the given initial count.
func New(initial int) *Semaphore {
	if initial < 0 {
		debug.DFatalf("semaphore: negative initial count %d", initial)
	}
	return &Semaphore{
		cv:    cosync.NewCV[*sync.Mutex](),
		count: initial,
	}
}

// Down blocks the calling task until the count is positive, then
// decrements it. It returns false if tc is cancelled while waiting, in
// which case the count is left unchanged.
func (s *Semaphore) Down(tc *taskctx.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	acquired := s.cv.WaitPred(tc, &s.mu, func() bool { return s.count > 0 })
	if !acquired {
		return false
	}
	s.count--
	debug.DPrintf(debug.SEMCLNT, "task %d Down, count now %d", tc.ID(), s.count)
	return true
}

// Up increments the count and wakes one waiting task, if any.
func (s *Semaphore) Up() {
	s.mu.Lock()
	s.count++
	debug.DPrintf(debug.SEMCLNT, "Up, count now %d", s.count)
	s.mu.Unlock()
	s.cv.NotifyOne()
}

// Count returns the current count, for tests and observability.
func (s *Semaphore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close releases the semaphore's condition variable. It must not be called
// while any task is blocked in Down.
func (s *Semaphore) Close() {
	s.cv.Close()
}
