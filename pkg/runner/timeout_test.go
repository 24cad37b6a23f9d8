package runner_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/talebox/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestTimeout_Fires(t *testing.T) {
	var calls atomic.Int32
	to := runner.AfterTimeout(10*time.Millisecond, func() { calls.Add(1) })
	assert.True(t, to.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, to.Pending())

	to.Cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeout_CancelSuppresses(t *testing.T) {
	var calls atomic.Int32
	to := runner.AfterTimeout(30*time.Millisecond, func() { calls.Add(1) })

	to.Cancel()
	to.Cancel()
	assert.False(t, to.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestTimeout_Nil(t *testing.T) {
	var to *runner.Timeout
	to.Cancel()
	assert.False(t, to.Pending())
}
