package sync

import (
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotask/deadline"
	"cotask/taskctx"
)

// S1: one producer, one consumer, predicate-form Wait.
func TestProducerConsumer(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	ready := false
	delivered := make(chan struct{})

	consumer := taskctx.Go(func(tc *taskctx.Context) {
		mu.Lock()
		cv.WaitPred(tc, &mu, func() bool { return ready })
		mu.Unlock()
		close(delivered)
	})
	_ = consumer

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.NotifyOne()

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("consumer never observed ready")
	}
}

// S2: NotifyAll wakes every waiter.
func TestNotifyAllWakesEveryone(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	const n = 5
	done := make(chan struct{}, n)
	ready := false

	for i := 0; i < n; i++ {
		taskctx.Go(func(tc *taskctx.Context) {
			mu.Lock()
			cv.WaitPred(tc, &mu, func() bool { return ready })
			mu.Unlock()
			done <- struct{}{}
		})
	}

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.NotifyAll()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("only %d of %d waiters woke", i, n)
		}
	}
}

// S3: WaitUntil reports StatusTimeout, and lock is held on return.
func TestWaitUntilTimesOut(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	tc := taskctx.New()

	mu.Lock()
	status := cv.WaitUntil(tc, &mu, deadline.In(20*time.Millisecond))
	// lock must be held here, on any return path.
	unlocked := make(chan struct{})
	go func() {
		mu.Lock()
		close(unlocked)
		mu.Unlock()
	}()
	select {
	case <-unlocked:
		t.Fatal("lock was not held on return from WaitUntil")
	case <-time.After(10 * time.Millisecond):
	}
	mu.Unlock()

	assert.Equal(t, StatusTimeout, status)
}

// S4: cancellation short-circuits before parking, and interrupts an
// in-progress wait.
func TestCancellationShortCircuitsBeforeParking(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	tc := taskctx.New()
	tc.RequestCancel()

	mu.Lock()
	status := cv.Wait(tc, &mu)
	mu.Unlock()

	assert.Equal(t, StatusCancelled, status)
}

func TestCancellationInterruptsWait(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	tc := taskctx.New()

	woke := make(chan Status, 1)
	go func() {
		mu.Lock()
		woke <- cv.Wait(tc, &mu)
		mu.Unlock()
	}()

	time.Sleep(10 * time.Millisecond)
	tc.RequestCancel()

	select {
	case status := <-woke:
		assert.Equal(t, StatusCancelled, status)
	case <-time.After(time.Second):
		t.Fatal("cancellation did not wake the waiting task")
	}
}

// S5: spurious wakeups are absorbed by the predicate form and accounted.
func TestSpuriousWakeupIsAbsorbedByPredicateForm(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	tc := taskctx.New()
	ready := false

	woke := make(chan struct{})
	go func() {
		mu.Lock()
		cv.WaitPred(tc, &mu, func() bool { return ready })
		mu.Unlock()
		close(woke)
	}()

	time.Sleep(10 * time.Millisecond)
	// A notify with the predicate still false: spurious from the caller's
	// point of view, since nothing changed that WaitPred cares about.
	cv.NotifyOne()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, uint64(1), tc.SpuriousWakeups())

	mu.Lock()
	ready = true
	mu.Unlock()
	cv.NotifyOne()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter never observed ready after the real notify")
	}
}

// S6: Notify with an empty wait list is a safe no-op that never blocks.
func TestNotifyOnEmptyWaitListIsNoOp(t *testing.T) {
	cv := NewCV[*stdsync.Mutex]()
	require.NotPanics(t, func() {
		cv.NotifyOne()
		cv.NotifyAll()
	})
}

// FIFO wake order: NotifyOne wakes the longest-waiting task first.
func TestNotifyOneWakesInFIFOOrder(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	order := make(chan int, 3)

	for i := 0; i < 3; i++ {
		i := i
		go func() {
			tc := taskctx.New()
			mu.Lock()
			cv.Wait(tc, &mu)
			mu.Unlock()
			order <- i
		}()
		// Give each waiter time to park before the next one starts, so
		// arrival order on the wait list is deterministic.
		time.Sleep(20 * time.Millisecond)
	}

	for i := 0; i < 3; i++ {
		cv.NotifyOne()
		select {
		case got := <-order:
			assert.Equal(t, i, got)
		case <-time.After(time.Second):
			t.Fatalf("waiter %d never woke", i)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Mutual exclusion: only one task observes the locked critical section at
// a time, across many waiters funneled through the same condition variable.
func TestMutualExclusionAcrossWaiters(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	counter := 0
	const n = 20
	ready := false
	done := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		taskctx.Go(func(tc *taskctx.Context) {
			mu.Lock()
			cv.WaitPred(tc, &mu, func() bool { return ready })
			counter++
			mu.Unlock()
			done <- struct{}{}
		})
	}

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.NotifyAll()

	for i := 0; i < n; i++ {
		<-done
	}
	assert.Equal(t, n, counter)
}

func TestCloseAfterWaitersDrainedSucceeds(t *testing.T) {
	var mu stdsync.Mutex
	cv := NewCV[*stdsync.Mutex]()
	tc := taskctx.New()
	ready := false

	woke := make(chan struct{})
	go func() {
		mu.Lock()
		cv.WaitPred(tc, &mu, func() bool { return ready })
		mu.Unlock()
		close(woke)
	}()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.NotifyOne()
	<-woke

	require.NotPanics(t, func() { cv.Close() })
}
