package app

import "time"

// Timer counts simulation time up to a duration. It is advanced
// explicitly with Update, usually from an UpdateFunc.
type Timer struct {
	Elapsed  time.Duration
	duration time.Duration
	finished bool
}

// NewTimer returns a timer that finishes after d.
func NewTimer(d time.Duration) *Timer {
	return &Timer{duration: d}
}

// Update advances the timer by dt. Once finished, the timer stops
// accumulating until Reset. It reports whether this call finished it.
func (t *Timer) Update(dt time.Duration) bool {
	if t.finished {
		return false
	}
	t.Elapsed += dt
	if t.Elapsed >= t.duration {
		t.finished = true
		return true
	}
	return false
}

// Finished reports whether the duration has elapsed.
func (t *Timer) Finished() bool { return t.finished }

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration { return t.duration }

// Remaining returns the time left, or zero when finished.
func (t *Timer) Remaining() time.Duration {
	return max(t.duration-t.Elapsed, 0)
}

// Reset restarts the timer from zero.
func (t *Timer) Reset() {
	t.Elapsed = 0
	t.finished = false
}
