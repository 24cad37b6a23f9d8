package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalManager turns OS termination signals into context cancellation.
type SignalManager struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	signals []os.Signal
	stopped bool
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
// SIGINT and SIGTERM are captured when no signal is given.
func NewSignalManager(signals ...os.Signal) *SignalManager {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	sm := &SignalManager{signals: signals}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.ctx
}

// Reset re-arms the signal listener.
// Should be called after a signal has been handled to capture subsequent signals.
func (sm *SignalManager) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.stopped {
		return
	}
	// Register the new listener before releasing the old one.
	prev := sm.cancel
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), sm.signals...)
	if prev != nil {
		prev()
	}
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stopped = true
	if sm.cancel != nil {
		sm.cancel()
	}
}

// Listen calls notify for every captured signal until ctx is done or Stop is called.
func (sm *SignalManager) Listen(ctx context.Context, notify func()) {
	for {
		sig := sm.Context()
		select {
		case <-ctx.Done():
			return
		case <-sig.Done():
		}

		sm.mu.Lock()
		stopped := sm.stopped
		sm.mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}

		notify()
		sm.Reset()
	}
}
