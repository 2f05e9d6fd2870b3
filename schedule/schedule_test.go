package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ticks(s Scheduler, start time.Time, step time.Duration, n int) []bool {
	s.Start(start)
	results := make([]bool, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, s.Tick(start.Add(time.Duration(i)*step)))
	}
	return results
}

func TestFramesFlushesEveryNthTick(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal([]bool{false, false, true, false, false, true, false},
		ticks(Frames(3), time.Time{}, time.Millisecond, 7))
}

func TestFramesOneAndZeroFlushEveryTick(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal([]bool{true, true, true}, ticks(Frames(1), time.Time{}, time.Millisecond, 3))
	requireT.Equal([]bool{true, true, true}, ticks(Frames(0), time.Time{}, time.Millisecond, 3))
}

func TestFramesStartResetsCounter(t *testing.T) {
	requireT := require.New(t)

	s := Frames(2)
	s.Start(time.Time{})
	requireT.False(s.Tick(time.Time{}))

	s.Start(time.Time{})
	requireT.False(s.Tick(time.Time{}))
	requireT.True(s.Tick(time.Time{}))
}

func TestIntervalFlushesWhenThresholdReached(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal([]bool{false, false, true, false, false, true},
		ticks(Interval(30*time.Millisecond), time.Unix(100, 0), 10*time.Millisecond, 6))
}

func TestIntervalZeroFlushesEveryTick(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal([]bool{true, true, true}, ticks(Interval(0), time.Unix(100, 0), 0, 3))
}

func TestIntervalReferenceResetsToNow(t *testing.T) {
	requireT := require.New(t)

	start := time.Unix(100, 0)
	s := Interval(100 * time.Millisecond)
	s.Start(start)

	// Late tick flushes once, missed periods are not caught up.
	requireT.True(s.Tick(start.Add(350 * time.Millisecond)))
	requireT.False(s.Tick(start.Add(400 * time.Millisecond)))
	requireT.True(s.Tick(start.Add(450 * time.Millisecond)))
}
