package schedule

import "time"

// Scheduler decides on each tick if the accumulated samples should be flushed.
// Schedulers are driven by the tick loop of their channel and are not safe for concurrent use.
type Scheduler interface {
	// Start resets the scheduler, now is the time the channel starts sending.
	Start(now time.Time)

	// Tick reports if the tick happening at now is a flush tick.
	Tick(now time.Time) bool
}

// Frames returns scheduler flushing on every n-th tick.
func Frames(n uint64) *FrameInterval {
	return &FrameInterval{n: max(n, 1)}
}

// FrameInterval flushes every n-th tick counted from the start.
type FrameInterval struct {
	n       uint64
	counter uint64
}

// Start implements Scheduler.
func (s *FrameInterval) Start(time.Time) {
	s.counter = 0
}

// Tick implements Scheduler.
func (s *FrameInterval) Tick(time.Time) bool {
	s.counter++
	if s.counter < s.n {
		return false
	}
	s.counter = 0
	return true
}

// Interval returns scheduler flushing when at least d elapsed since the previous flush.
func Interval(d time.Duration) *TimeInterval {
	return &TimeInterval{d: max(d, 0)}
}

// TimeInterval flushes when the time elapsed since the previous flush reaches the threshold.
// Reference time is moved to the time of the flush, so missed ticks are not caught up.
type TimeInterval struct {
	d         time.Duration
	reference time.Time
}

// Start implements Scheduler.
func (s *TimeInterval) Start(now time.Time) {
	s.reference = now
}

// Tick implements Scheduler.
func (s *TimeInterval) Tick(now time.Time) bool {
	if now.Sub(s.reference) < s.d {
		return false
	}
	s.reference = now
	return true
}
