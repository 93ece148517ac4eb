package utils

import (
	"time"
)

// -----------------------------------------------------------------------------
// RefreshScheduler drives periodic work on a fixed interval until stopped.
// -----------------------------------------------------------------------------

type RefreshScheduler struct {
	interval time.Duration
	task     func()
	stop     chan struct{}
	done     chan struct{}
}

// -----------------------------------------------------------------------------

func NewRefreshScheduler(interval time.Duration, task func()) *RefreshScheduler {
	return &RefreshScheduler{
		interval: interval,
		task:     task,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// -----------------------------------------------------------------------------

// Start runs the loop in its own goroutine. The task fires once immediately,
// then on every tick.
func (rs *RefreshScheduler) Start() {
	go func() {
		defer close(rs.done)

		rs.task()

		ticker := time.NewTicker(rs.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rs.task()
			case <-rs.stop:
				return
			}
		}
	}()
}

// -----------------------------------------------------------------------------

// Stop halts the loop and waits for the in-flight task to finish.
func (rs *RefreshScheduler) Stop() {
	close(rs.stop)
	<-rs.done
}
