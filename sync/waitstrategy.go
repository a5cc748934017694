package sync

import (
	stdsync "sync"

	"cotask/deadline"
	"cotask/debug"
	"cotask/taskctx"
)

// CvWaitStrategy closes the "release lock, enqueue, sleep" race for a
// single condition-variable Wait call. The wait list's own lock is acquired
// in the constructor, before the external mutex L is released — so a
// notifier calling NotifyOne/NotifyAll, which must also take the wait
// list's lock to pop a token, cannot observe this task as "not yet
// enqueued" and decide there is nobody to wake. It is constructed fresh for
// every Wait call and used exactly once.
type CvWaitStrategy[L stdsync.Locker] struct {
	wl       *WaitList
	tc       *taskctx.Context
	extLock  L
	deadline deadline.Deadline

	scope  WaitersScopeCounter
	wlLock *Lock
	tok    *token

	afterAsleepCalled bool
	beforeAwakeCalled bool
}

// NewCvWaitStrategy acquires the wait list's lock and a waiters-scope token
// on behalf of the calling task. The caller must already hold extLock; it
// is released from AfterAsleep and reacquired from BeforeAwake.
func NewCvWaitStrategy[L stdsync.Locker](wl *WaitList, tc *taskctx.Context, extLock L, dl deadline.Deadline) *CvWaitStrategy[L] {
	s := &CvWaitStrategy[L]{
		wl:       wl,
		tc:       tc,
		extLock:  extLock,
		deadline: dl,
	}
	s.scope = wl.EnterScope()
	s.wlLock = wl.Acquire()
	return s
}

// Deadline implements taskctx.WaitStrategy.
func (s *CvWaitStrategy[L]) Deadline() taskctx.Deadline {
	return s.deadline
}

// AfterAsleep implements taskctx.WaitStrategy. It appends this task's token
// to the wait list, then releases the wait list's lock and only then the
// external mutex, in that order: releasing L last ensures that any thread
// that acquires L, mutates the predicate, and then notifies always does so
// after this task is already enqueued.
func (s *CvWaitStrategy[L]) AfterAsleep() {
	if s.afterAsleepCalled {
		debug.DFatalf("sync: AfterAsleep called more than once for task %d", s.tc.ID())
	}
	s.afterAsleepCalled = true
	s.tok = s.wl.Append(s.wlLock, s.tc)
	s.wlLock.Release()
	s.extLock.Unlock()
	debug.DPrintf(debug.WAITSTRATEGY, "task %d enqueued, external lock released", s.tc.ID())
}

// BeforeAwake implements taskctx.WaitStrategy. It removes this task's token
// from the wait list — a no-op if a notifier already popped it — releases
// the waiters-scope token, and reacquires the external mutex before
// returning control to the caller of Sleep.
func (s *CvWaitStrategy[L]) BeforeAwake() {
	if s.beforeAwakeCalled {
		debug.DFatalf("sync: BeforeAwake called more than once for task %d", s.tc.ID())
	}
	s.beforeAwakeCalled = true
	lock := s.wl.Acquire()
	s.wl.Remove(lock, s.tok)
	lock.Release()
	s.scope.Leave()
	s.extLock.Lock()
	debug.DPrintf(debug.WAITSTRATEGY, "task %d dequeued, external lock reacquired", s.tc.ID())
}
