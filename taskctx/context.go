// Package taskctx is the cooperative-task-context facade the wait primitive
// in package sync is built against. The task scheduler itself — fiber
// allocation, stack switching, run-queue management — is out of scope for
// this fragment; in this Go rendering that role is filled by the Go runtime's
// own goroutine scheduler, so Context only needs to expose the slice of
// behavior the distilled spec calls out: cancellation, a single suspension
// point, and spurious-wakeup accounting.
//
// Because Go has no goroutine-local storage, "the running task's context" is
// not fetched implicitly the way the original engine's current_task::
// GetCurrentTaskContext() is. Instead every cooperative task owns its
// *Context explicitly from the moment it is spawned (see Go), and passes it
// to whatever it calls that needs to suspend — mirroring the teacher's
// sesscond.SessCond.Wait(sessid), which already takes its task identity as
// an explicit parameter rather than a thread-local lookup.
package taskctx

import (
	"sync"
	"sync/atomic"
	"time"

	"cotask/debug"
)

// WakeupSource discriminates why a parked task became runnable again.
// None and Bootstrap are invariants-only: a caller observing either of them
// has hit a contract violation.
type WakeupSource int

const (
	WakeupNone WakeupSource = iota
	WakeupBootstrap
	WakeupWaitList
	WakeupDeadlineTimer
	WakeupCancelRequest
)

func (s WakeupSource) String() string {
	switch s {
	case WakeupNone:
		return "None"
	case WakeupBootstrap:
		return "Bootstrap"
	case WakeupWaitList:
		return "WaitList"
	case WakeupDeadlineTimer:
		return "DeadlineTimer"
	case WakeupCancelRequest:
		return "CancelRequest"
	default:
		return "Unknown"
	}
}

// WaitStrategy is the protocol the scheduler invokes around suspension. It
// is held by reference throughout Sleep; neither hook may panic.
type WaitStrategy interface {
	// Deadline returns the absolute point at which Sleep should return
	// WakeupDeadlineTimer if no other wakeup source has fired yet.
	Deadline() Deadline
	// AfterAsleep runs once, immediately after the calling goroutine has
	// committed to suspending and before it blocks.
	AfterAsleep()
	// BeforeAwake runs once, after a wakeup source has been chosen and
	// before Sleep returns to the caller.
	BeforeAwake()
}

// Deadline is the minimal view of deadline.Deadline this package needs,
// expressed as an interface so that taskctx does not import package
// deadline and package deadline does not need to know about tasks.
type Deadline interface {
	IsNever() bool
	IsReached() bool
	Remaining() time.Duration
}

// Context is the per-task identity and suspension point. Exactly one
// Context exists per cooperative task for its lifetime.
type Context struct {
	id uint64

	cancelled  atomic.Bool
	cancelOnce sync.Once
	cancelSig  chan struct{}

	mu       sync.Mutex
	asleep   bool
	wakeupCh chan WakeupSource

	spurious atomic.Uint64
}

var nextID atomic.Uint64

// New creates a fresh, not-yet-cancelled task context.
func New() *Context {
	return &Context{
		id:        nextID.Add(1),
		cancelSig: make(chan struct{}),
	}
}

// Go spawns fn as a cooperative task running in its own goroutine, with a
// freshly allocated Context. It returns immediately with the context; fn
// runs concurrently. This is the minimal scheduler surface this fragment
// provides to exercise the waiting primitive — spawning, cancellation
// delivery, and fiber/stack switching proper remain the out-of-scope
// scheduler's job, delegated here to the Go runtime.
func Go(fn func(tc *Context)) *Context {
	tc := New()
	go fn(tc)
	return tc
}

// ID returns the task's identity, stable for its lifetime. It exists so
// wait-list implementations (and tests) can log and compare tasks without
// depending on pointer identity directly.
func (tc *Context) ID() uint64 {
	return tc.id
}

// ShouldCancel reports whether a cancellation request has been delivered to
// this task.
func (tc *Context) ShouldCancel() bool {
	return tc.cancelled.Load()
}

// RequestCancel delivers a cancellation request to this task. It is
// idempotent and safe to call from any goroutine, including after the task
// has already exited. Cancellation is sticky: once delivered, it remains
// delivered for the remainder of the task's life.
func (tc *Context) RequestCancel() {
	tc.cancelOnce.Do(func() {
		tc.cancelled.Store(true)
		close(tc.cancelSig)
	})
}

// AccountSpuriousWakeup increments this task's spurious-wakeup counter. It
// is called by the predicate form of CV.Wait whenever a wait-list wakeup
// leaves the predicate false; deadline and cancellation wakeups are not
// counted.
func (tc *Context) AccountSpuriousWakeup() {
	tc.spurious.Add(1)
}

// SpuriousWakeups returns the number of spurious wakeups observed so far,
// for testing and observability.
func (tc *Context) SpuriousWakeups() uint64 {
	return tc.spurious.Load()
}

// Sleep is the sole suspension point. It invokes strategy.AfterAsleep(),
// blocks until a wakeup source fires, invokes strategy.BeforeAwake(), and
// returns the chosen wakeup source. Sleep must not be called reentrantly on
// the same Context from two goroutines at once; doing so is a contract
// violation.
func (tc *Context) Sleep(strategy WaitStrategy) WakeupSource {
	tc.mu.Lock()
	if tc.asleep {
		tc.mu.Unlock()
		debug.DFatalf("taskctx: Sleep called on task %d while already asleep", tc.id)
	}
	tc.asleep = true
	ch := make(chan WakeupSource, 1)
	tc.wakeupCh = ch
	tc.mu.Unlock()

	strategy.AfterAsleep()

	var timerC <-chan time.Time
	dl := strategy.Deadline()
	if !dl.IsNever() {
		remaining := dl.Remaining()
		if remaining < 0 {
			remaining = 0
		}
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		timerC = timer.C
	}

	var source WakeupSource
	select {
	case source = <-ch:
	case <-timerC:
		source = WakeupDeadlineTimer
	case <-tc.cancelSig:
		source = WakeupCancelRequest
	}

	tc.mu.Lock()
	tc.asleep = false
	tc.wakeupCh = nil
	tc.mu.Unlock()

	strategy.BeforeAwake()

	debug.DPrintf(debug.TASKCTX, "task %d woke: %s", tc.id, source)
	return source
}

// DeliverWaitListWakeup marks this task runnable with WakeupWaitList. It is
// called only by wait-list implementations (see package sync's WaitList)
// while they hold their own internal lock, transferring wake rights to this
// task exactly as the distilled spec's WaitList invariants require. It is a
// non-blocking, best-effort send: if the task is not currently asleep (or
// has already been woken by a racing deadline/cancellation), the delivery is
// simply dropped, which is the "discard the other sources" behavior the
// specification calls for.
func (tc *Context) DeliverWaitListWakeup() {
	tc.mu.Lock()
	ch := tc.wakeupCh
	tc.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- WakeupWaitList:
	default:
	}
}
