package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cotask/taskctx"
)

func TestWaitListAppendRemoveIsIdempotent(t *testing.T) {
	wl := NewWaitList()
	tc := taskctx.New()

	lock := wl.Acquire()
	tok := wl.Append(lock, tc)
	assert.EqualValues(t, 1, wl.SleepiesCount())

	wl.Remove(lock, tok)
	assert.EqualValues(t, 0, wl.SleepiesCount())

	// Removing again must be a safe no-op.
	wl.Remove(lock, tok)
	assert.EqualValues(t, 0, wl.SleepiesCount())
	lock.Release()
}

func TestWaitListWakeupOneRemovesToken(t *testing.T) {
	wl := NewWaitList()
	tc1, tc2 := taskctx.New(), taskctx.New()

	lock := wl.Acquire()
	tok1 := wl.Append(lock, tc1)
	wl.Append(lock, tc2)
	lock.Release()

	lock = wl.Acquire()
	woke := wl.WakeupOne(lock)
	lock.Release()

	assert.True(t, woke)
	assert.EqualValues(t, 1, wl.SleepiesCount())

	// The popped token is no longer in the list; removing it again is safe.
	lock = wl.Acquire()
	wl.Remove(lock, tok1)
	lock.Release()
	assert.EqualValues(t, 1, wl.SleepiesCount())
}

func TestWaitListWakeupAllDrainsEveryToken(t *testing.T) {
	wl := NewWaitList()
	lock := wl.Acquire()
	for i := 0; i < 4; i++ {
		wl.Append(lock, taskctx.New())
	}
	lock.Release()

	lock = wl.Acquire()
	n := wl.WakeupAll(lock)
	lock.Release()

	assert.Equal(t, 4, n)
	assert.EqualValues(t, 0, wl.SleepiesCount())
}

func TestWaitersScopeCounterTracksInFlightWaits(t *testing.T) {
	wl := NewWaitList()
	assert.EqualValues(t, 0, wl.WaitersScopeCount())

	scope := wl.EnterScope()
	assert.EqualValues(t, 1, wl.WaitersScopeCount())

	scope.Leave()
	assert.EqualValues(t, 0, wl.WaitersScopeCount())
}

func TestWakeupOnEmptyListIsNoOp(t *testing.T) {
	wl := NewWaitList()
	lock := wl.Acquire()
	woke := wl.WakeupOne(lock)
	n := wl.WakeupAll(lock)
	lock.Release()

	assert.False(t, woke)
	assert.Equal(t, 0, n)
}
