package runner

import (
	"sync/atomic"
	"time"
)

// Timeout is a cancellable one-shot timer.
// Cancel suppresses the callback unless it already started; the callback runs at most once.
type Timeout struct {
	timer     *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

// AfterTimeout calls fn in its own goroutine once d has elapsed.
func AfterTimeout(d time.Duration, fn func()) *Timeout {
	t := &Timeout{}
	t.timer = time.AfterFunc(d, func() {
		if t.cancelled.Load() {
			return
		}
		t.fired.Store(true)
		fn()
	})
	return t
}

// Cancel stops the timer. It is safe to call on a nil Timeout and more than once.
func (t *Timeout) Cancel() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	t.timer.Stop()
}

// Pending reports whether the timer is armed: neither fired nor cancelled.
func (t *Timeout) Pending() bool {
	return t != nil && !t.cancelled.Load() && !t.fired.Load()
}
