package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/pulse/wire"
)

func frame(sender wire.DeviceID, kind wire.Kind, revision wire.Revision) wire.Frame {
	return wire.Frame{
		Header: wire.Header{
			Kind:     kind,
			Sender:   sender,
			Revision: revision,
		},
	}
}

func next(requireT *require.Assertions, q *Queue) wire.Frame {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	f, err := q.Next(ctx)
	requireT.NoError(err)
	return f
}

func TestReliableFramesGoFirst(t *testing.T) {
	requireT := require.New(t)

	q := New(10)
	requireT.True(q.Push(frame(1, wire.KindTouches, 0), wire.Unreliable))
	requireT.True(q.Push(frame(1, wire.KindDeviceInfo, 0), wire.Reliable))
	requireT.True(q.Push(frame(1, wire.KindDeviceInfo, 1), wire.Reliable))
	requireT.Equal(3, q.Len())

	requireT.Equal(frame(1, wire.KindDeviceInfo, 0), next(requireT, q))
	requireT.Equal(frame(1, wire.KindDeviceInfo, 1), next(requireT, q))
	requireT.Equal(frame(1, wire.KindTouches, 0), next(requireT, q))
	requireT.Zero(q.Len())
}

func TestOldestUnreliableFrameIsDropped(t *testing.T) {
	requireT := require.New(t)

	q := New(2)
	q.Push(frame(1, wire.KindTouches, 0), wire.Unreliable)
	q.Push(frame(1, wire.KindTouches, 1), wire.Unreliable)
	q.Push(frame(1, wire.KindTouches, 2), wire.Unreliable)
	for i := range wire.Revision(5) {
		q.Push(frame(1, wire.KindDeviceInfo, i), wire.Reliable)
	}

	requireT.Equal(uint64(1), q.Dropped())
	requireT.Equal(7, q.Len())

	for range 5 {
		next(requireT, q)
	}
	requireT.Equal(frame(1, wire.KindTouches, 1), next(requireT, q))
	requireT.Equal(frame(1, wire.KindTouches, 2), next(requireT, q))
}

func TestPurge(t *testing.T) {
	requireT := require.New(t)

	q := New(10)
	q.Push(frame(1, wire.KindTouches, 0), wire.Unreliable)
	q.Push(frame(2, wire.KindTouches, 0), wire.Unreliable)
	q.Push(frame(1, wire.KindDeviceInfo, 0), wire.Reliable)
	q.Push(frame(1, wire.KindTouches, 1), wire.Unreliable)

	q.Purge(1)

	requireT.Equal(2, q.Len())
	requireT.Equal(frame(1, wire.KindDeviceInfo, 0), next(requireT, q))
	requireT.Equal(frame(2, wire.KindTouches, 0), next(requireT, q))
}

func TestNextWaitsForFrame(t *testing.T) {
	requireT := require.New(t)

	q := New(10)
	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Push(frame(3, wire.KindTransform, 0), wire.Unreliable)
	}()

	requireT.Equal(frame(3, wire.KindTransform, 0), next(requireT, q))
}

func TestClose(t *testing.T) {
	requireT := require.New(t)

	q := New(10)
	q.Push(frame(1, wire.KindDeviceInfo, 0), wire.Reliable)
	q.Close()
	requireT.False(q.Push(frame(1, wire.KindDeviceInfo, 1), wire.Reliable))

	requireT.Equal(frame(1, wire.KindDeviceInfo, 0), next(requireT, q))

	_, err := q.Next(context.Background())
	requireT.ErrorIs(err, ErrClosed)
}

func TestNextHonorsContext(t *testing.T) {
	requireT := require.New(t)

	q := New(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Next(ctx)
	requireT.ErrorIs(err, context.Canceled)
}
