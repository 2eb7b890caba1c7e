package scheduler

import (
	"sync"
	"time"
)

// oneShotTimer is a resettable debounce timer: reset() (re)arms it for
// duration from now; if it is not reset again before then, onExpire runs
// once on its own goroutine. Adapted from IntuitionAmiga-IntuitionEngine's
// ticker/goroutine refreshLoop idiom, turning a periodic ticker into a
// single-shot, debounce-on-activity timer via stdlib time.AfterFunc and
// time.Timer.Reset.
type oneShotTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	onExpire func()
}

func newOneShotTimer(d time.Duration, onExpire func()) *oneShotTimer {
	return &oneShotTimer{duration: d, onExpire: onExpire}
}

func (t *oneShotTimer) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.duration <= 0 {
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.duration, t.onExpire)
		return
	}
	if !t.timer.Stop() {
		// Timer already fired or is firing; draining isn't needed since
		// AfterFunc runs onExpire on its own goroutine rather than
		// sending on a channel.
	}
	t.timer.Reset(t.duration)
}

func (t *oneShotTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}
