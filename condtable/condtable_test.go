package condtable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cotask/taskctx"
)

func TestWaitSignalOnSameKey(t *testing.T) {
	table := New[string]()
	ready := false
	woke := make(chan bool, 1)

	taskctx.Go(func(tc *taskctx.Context) {
		woke <- table.Wait(tc, "sess-1", func() bool { return ready })
	})

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, table.Len())
	ready = true
	table.Signal("sess-1")

	select {
	case ok := <-woke:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("waiter never woke")
	}
	assert.Equal(t, 0, table.Len())
}

func TestDifferentKeysAreIndependent(t *testing.T) {
	table := New[string]()
	readyA, readyB := false, false
	wokeA := make(chan struct{})
	wokeB := make(chan struct{})

	taskctx.Go(func(tc *taskctx.Context) {
		table.Wait(tc, "a", func() bool { return readyA })
		close(wokeA)
	})
	taskctx.Go(func(tc *taskctx.Context) {
		table.Wait(tc, "b", func() bool { return readyB })
		close(wokeB)
	})
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, table.Len())

	readyA = true
	table.Signal("a")

	select {
	case <-wokeA:
	case <-time.After(time.Second):
		t.Fatal("waiter on key a never woke")
	}

	select {
	case <-wokeB:
		t.Fatal("waiter on key b woke from a signal on key a")
	case <-time.After(30 * time.Millisecond):
	}

	readyB = true
	table.Broadcast("b")
	<-wokeB
}

func TestSignalOnUnknownKeyIsNoOp(t *testing.T) {
	table := New[string]()
	assert.NotPanics(t, func() {
		table.Signal("nope")
		table.Broadcast("also-nope")
	})
}
