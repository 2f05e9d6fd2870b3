package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/pulse/aggregate"
	"github.com/outofforest/pulse/schedule"
	"github.com/outofforest/pulse/wire"
)

type recorder struct {
	samples []int
	flushes int
}

func (r *recorder) Accumulate(sample int) {
	r.samples = append(r.samples, sample)
}

func (r *recorder) Flush() (any, bool) {
	r.flushes++
	samples := r.samples
	r.samples = nil
	return samples, true
}

func counter() func() int {
	var n int
	return func() int {
		n++
		return n
	}
}

func TestStateTransitions(t *testing.T) {
	requireT := require.New(t)

	c := New[int](Config{Kind: wire.ApplicationKind(1)}, &recorder{}, counter(), schedule.Frames(1))
	requireT.Equal(Idle, c.State())
	requireT.ErrorIs(c.Activate(true), ErrInvalidTransition)

	requireT.NoError(c.Register())
	requireT.Equal(Registered, c.State())
	requireT.ErrorIs(c.Register(), ErrInvalidTransition)

	requireT.NoError(c.Activate(true))
	requireT.Equal(Sending, c.State())
	requireT.ErrorIs(c.Activate(false), ErrInvalidTransition)

	c.Stop()
	requireT.Equal(Stopped, c.State())
	c.Stop()
	requireT.Equal(Stopped, c.State())
	requireT.ErrorIs(c.Register(), ErrInvalidTransition)
}

func TestNothingIsSampledBeforeSending(t *testing.T) {
	requireT := require.New(t)

	r := &recorder{}
	c := New[int](Config{Kind: wire.ApplicationKind(1)}, r, counter(), schedule.Frames(1))

	_, send := c.Tick(time.Now())
	requireT.False(send)

	requireT.NoError(c.Register())
	_, send = c.Tick(time.Now())
	requireT.False(send)

	requireT.NoError(c.Activate(false))
	requireT.Equal(ReceivingOnly, c.State())
	_, send = c.Tick(time.Now())
	requireT.False(send)

	requireT.Empty(r.samples)
	requireT.Zero(r.flushes)
}

func TestFrameIntervalFlushesEveryThirdTick(t *testing.T) {
	requireT := require.New(t)

	r := &recorder{}
	c := New[int](Config{Kind: wire.ApplicationKind(1)}, r, counter(), schedule.Frames(3))
	requireT.NoError(c.Register())
	requireT.NoError(c.Activate(true))

	now := time.Now()
	var flushed []any
	for range 7 {
		if payload, send := c.Tick(now); send {
			flushed = append(flushed, payload)
		}
	}

	requireT.Equal([]any{[]int{1, 2, 3}, []int{4, 5, 6}}, flushed)
	requireT.Equal([]int{7}, r.samples)
}

func TestTimeIntervalStartsOnFirstSendingTick(t *testing.T) {
	requireT := require.New(t)

	r := &recorder{}
	c := New[int](Config{Kind: wire.ApplicationKind(1)}, r, counter(), schedule.Interval(time.Second))
	requireT.NoError(c.Register())
	requireT.NoError(c.Activate(true))

	start := time.Unix(1000, 0)
	_, send := c.Tick(start)
	requireT.False(send)
	_, send = c.Tick(start.Add(500 * time.Millisecond))
	requireT.False(send)

	payload, send := c.Tick(start.Add(1200 * time.Millisecond))
	requireT.True(send)
	requireT.Equal([]int{1, 2, 3}, payload)

	_, send = c.Tick(start.Add(2 * time.Second))
	requireT.False(send)
}

func TestStopDiscardsBufferedSamples(t *testing.T) {
	requireT := require.New(t)

	r := &recorder{}
	c := New[int](Config{Kind: wire.ApplicationKind(1)}, r, counter(), schedule.Frames(3))
	requireT.NoError(c.Register())
	requireT.NoError(c.Activate(true))

	c.Tick(time.Now())
	c.Tick(time.Now())
	c.Stop()

	_, send := c.Tick(time.Now())
	requireT.False(send)
	requireT.Equal([]int{1, 2}, r.samples)
	requireT.Zero(r.flushes)
}

func TestTouchAveragingWithFrameInterval(t *testing.T) {
	requireT := require.New(t)

	pressures := []float64{0.5, 0.7, 0.9}
	var tick int
	factory := Touches(func() []wire.Touch {
		touches := []wire.Touch{{FingerID: 1, Pressure: pressures[tick]}}
		tick++
		return touches
	}, func() schedule.Scheduler {
		return schedule.Frames(3)
	})

	c := factory()
	requireT.Equal(wire.KindTouches, c.Kind())
	requireT.Equal(wire.Unreliable, c.Reliability())
	requireT.NoError(c.Register())
	requireT.NoError(c.Activate(true))

	now := time.Now()
	_, send := c.Tick(now)
	requireT.False(send)
	_, send = c.Tick(now)
	requireT.False(send)

	payload, send := c.Tick(now)
	requireT.True(send)
	touches, ok := payload.(*wire.Touches)
	requireT.True(ok)
	requireT.Len(touches.Touches, 1)
	requireT.InDelta(0.7, touches.Touches[0].Pressure, 1e-9)
}

func TestFactoriesCreateFreshChannels(t *testing.T) {
	requireT := require.New(t)

	factory := Transform(aggregate.DefaultTransformConfig, func() wire.Transform {
		return wire.Transform{Position: wire.Vector3{X: 1}}
	}, func() schedule.Scheduler {
		return schedule.Frames(1)
	})

	for range 2 {
		c := factory()
		requireT.Equal(Idle, c.State())
		requireT.NoError(c.Register())
		requireT.NoError(c.Activate(true))

		payload, send := c.Tick(time.Now())
		requireT.True(send)
		requireT.Equal(&wire.Transform{Position: wire.Vector3{X: 1}}, payload)
		c.Stop()
	}
}

func TestDeviceInfoIsSentOnChange(t *testing.T) {
	requireT := require.New(t)

	info := wire.DeviceInfo{Name: "phone"}
	c := DeviceInfo(func() wire.DeviceInfo {
		return info
	})()
	requireT.Equal(wire.Reliable, c.Reliability())
	requireT.NoError(c.Register())
	requireT.NoError(c.Activate(true))

	payload, send := c.Tick(time.Now())
	requireT.True(send)
	requireT.Equal(&wire.DeviceInfo{Name: "phone"}, payload)

	_, send = c.Tick(time.Now())
	requireT.False(send)

	info.Name = "tablet"
	payload, send = c.Tick(time.Now())
	requireT.True(send)
	requireT.Equal(&wire.DeviceInfo{Name: "tablet"}, payload)
}
