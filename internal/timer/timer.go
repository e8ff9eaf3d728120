// Package timer provides a repeating interval timer driven by elapsed wall-clock time.
package timer

import "time"

// Timer is a repeating interval timer. It is advanced manually by calling Tick with the
// time elapsed since the previous call and reports whether an interval boundary was
// crossed during that tick.
type Timer struct {
	interval      time.Duration
	elapsed       time.Duration
	timesFinished uint32
}

// New returns a repeating timer with the given interval.
// A non-positive interval yields a timer that finishes on every tick.
func New(interval time.Duration) *Timer {
	return &Timer{interval: interval}
}

// FromHz returns a repeating timer that finishes hz times per second.
func FromHz(hz uint32) *Timer {
	return New(IntervalFromHz(hz))
}

// IntervalFromHz converts a frequency to the matching interval duration.
func IntervalFromHz(hz uint32) time.Duration {
	if hz == 0 {
		return 0
	}
	return time.Second / time.Duration(hz)
}

// Tick advances the timer by d. Only the remainder modulo the interval is kept,
// finished intervals are counted and can be queried until the next tick.
func (t *Timer) Tick(d time.Duration) {
	t.timesFinished = 0
	if d < 0 {
		return
	}
	if t.interval <= 0 {
		t.timesFinished = 1
		return
	}

	t.elapsed += d
	if t.elapsed < t.interval {
		return
	}
	t.timesFinished = uint32(t.elapsed / t.interval)
	t.elapsed %= t.interval
}

// JustFinished returns whether at least one interval elapsed during the last tick.
func (t *Timer) JustFinished() bool {
	return t.timesFinished > 0
}

// SetInterval changes the interval while keeping the elapsed progress.
// Progress beyond the new interval finishes on the next tick.
func (t *Timer) SetInterval(interval time.Duration) {
	t.interval = interval
}

// Reset clears the elapsed progress and the finished state.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.timesFinished = 0
}
