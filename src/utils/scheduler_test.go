package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------

func TestRefreshSchedulerFiresImmediatelyAndTicks(t *testing.T) {
	var runs int32

	rs := NewRefreshScheduler(20*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
	})
	rs.Start()

	time.Sleep(70 * time.Millisecond)
	rs.Stop()

	// One immediate run plus at least two ticks
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(3))
}

// -----------------------------------------------------------------------------

func TestRefreshSchedulerStopHalts(t *testing.T) {
	var runs int32

	rs := NewRefreshScheduler(10*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
	})
	rs.Start()
	time.Sleep(25 * time.Millisecond)
	rs.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, after, atomic.LoadInt32(&runs), "no task runs after Stop")
}
