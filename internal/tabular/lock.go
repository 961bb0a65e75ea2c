package tabular

import (
	"context"
	"time"
)

// chanLock is a timed mutual-exclusion lock built on a buffered channel.
// Used by the memory and sqlite backends, where all writers share one
// process. The postgres backend uses advisory locks instead.
type chanLock struct {
	ch chan struct{}
}

func newChanLock() *chanLock {
	return &chanLock{ch: make(chan struct{}, 1)}
}

// TryLock implements Locker.
func (l *chanLock) TryLock(ctx context.Context, wait time.Duration) (func(), bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		return func() { <-l.ch }, true
	case <-ctx.Done():
		return func() {}, false
	case <-timer.C:
		return func() {}, false
	}
}
