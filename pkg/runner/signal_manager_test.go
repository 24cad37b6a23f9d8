package runner

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	// 1. Initial State
	ctx1 := sm.Context()
	assert.NotNil(t, ctx1)
	assert.NoError(t, ctx1.Err())

	// 2. Reset (should create new context)
	sm.Reset()
	ctx2 := sm.Context()
	assert.NotEqual(t, ctx1, ctx2, "Reset should generate a new context")
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	// 3. Stop (should cancel context and ignore later resets)
	sm.Stop()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	sm.Reset()
	assert.Equal(t, ctx2, sm.Context())
}

func TestSignalManager_ListenForwardsSignals(t *testing.T) {
	sm := NewSignalManager(syscall.SIGUSR1)
	defer sm.Stop()

	notified := make(chan struct{}, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sm.Listen(context.Background(), func() { notified <- struct{}{} })
	}()

	for i := 0; i < 2; i++ {
		before := sm.Context()
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
		select {
		case <-notified:
		case <-time.After(2 * time.Second):
			t.Fatalf("signal %d not forwarded", i)
		}
		// Wait for the listener to re-arm before sending the next one.
		require.Eventually(t, func() bool { return sm.Context() != before }, time.Second, 5*time.Millisecond)
	}

	sm.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after Stop")
	}
}

func TestSignalManager_ListenStopsWithContext(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	returned := make(chan struct{})
	go func() {
		sm.Listen(ctx, func() { t.Error("unexpected notification") })
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Listen ignored context cancellation")
	}
}
