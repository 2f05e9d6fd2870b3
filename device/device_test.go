package device

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/pulse/channel"
	"github.com/outofforest/pulse/registry"
	"github.com/outofforest/pulse/schedule"
	"github.com/outofforest/pulse/wire"
	"github.com/outofforest/qa"
)

type sent struct {
	Frame       wire.Frame
	Reliability wire.Reliability
}

type transport struct {
	mu    sync.Mutex
	sent  []sent
	err   error
	calls int
}

func (t *transport) Send(frame wire.Frame, reliability wire.Reliability) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, sent{Frame: frame, Reliability: reliability})
	return nil
}

func (t *transport) take() []sent {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.sent
	t.sent = nil
	return s
}

func newDevice(t *testing.T, mode Mode) (context.Context, *Device, *transport) {
	tr := &transport{}
	d, err := New(Config{
		Transport: tr,
		Mode:      mode,
	})
	require.NoError(t, err)
	return qa.NewContext(t), d, tr
}

func frame(
	requireT *require.Assertions,
	kind wire.Kind,
	sender wire.DeviceID,
	revision wire.Revision,
	payload any,
) wire.Frame {
	f, err := wire.NewCatalog().Encode(kind, payload)
	requireT.NoError(err)
	f.Header.Sender = sender
	f.Header.Revision = revision
	return f
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestTickSendsStampedFrames(t *testing.T) {
	requireT := require.New(t)
	ctx, d, tr := newDevice(t, SendReceive)

	info := wire.DeviceInfo{Name: "phone", ScreenWidth: 1080}
	requireT.NoError(d.AddChannel(channel.DeviceInfo(func() wire.DeviceInfo {
		return info
	})))

	d.Tick(ctx, time.Now())
	requireT.Empty(tr.take())

	requireT.NoError(d.Connected(ctx, 5))
	id, connected := d.ID()
	requireT.True(connected)
	requireT.Equal(wire.DeviceID(5), id)

	d.Tick(ctx, time.Now())
	d.Tick(ctx, time.Now())
	info.Name = "tablet"
	d.Tick(ctx, time.Now())

	s := tr.take()
	requireT.Len(s, 2)
	for i, name := range []string{"phone", "tablet"} {
		requireT.Equal(wire.Reliable, s[i].Reliability)
		requireT.Equal(wire.Header{
			Kind:     wire.KindDeviceInfo,
			Sender:   5,
			Revision: wire.Revision(i),
			Version:  1,
		}, s[i].Frame.Header)

		payload, err := wire.NewCatalog().Decode(s[i].Frame)
		requireT.NoError(err)
		requireT.Equal(&wire.DeviceInfo{Name: name, ScreenWidth: 1080}, payload)
	}
}

func TestChannelsAreRecreatedOnReconnect(t *testing.T) {
	requireT := require.New(t)
	ctx, d, tr := newDevice(t, SendReceive)

	requireT.NoError(d.AddChannel(channel.Touches(func() []wire.Touch {
		return []wire.Touch{{FingerID: 1, Pressure: 1}}
	}, func() schedule.Scheduler {
		return schedule.Frames(2)
	})))

	requireT.NoError(d.Connected(ctx, 1))
	d.Tick(ctx, time.Now())
	d.Disconnected(ctx, nil)
	d.Tick(ctx, time.Now())
	requireT.Empty(tr.take())

	// Sample buffered before disconnection is discarded, so flush happens on the second tick again.
	requireT.NoError(d.Connected(ctx, 2))
	d.Tick(ctx, time.Now())
	requireT.Empty(tr.take())
	d.Tick(ctx, time.Now())

	s := tr.take()
	requireT.Len(s, 1)
	requireT.Equal(wire.Unreliable, s[0].Reliability)
	requireT.Equal(wire.DeviceID(2), s[0].Frame.Header.Sender)
	requireT.Equal(wire.Revision(0), s[0].Frame.Header.Revision)
}

func TestReceiveOnlyDeviceSendsNothing(t *testing.T) {
	requireT := require.New(t)
	ctx, d, tr := newDevice(t, ReceiveOnly)

	requireT.NoError(d.AddChannel(channel.DeviceInfo(func() wire.DeviceInfo {
		return wire.DeviceInfo{Name: "phone"}
	})))
	requireT.NoError(d.Connected(ctx, 1))
	d.Tick(ctx, time.Now())
	requireT.Empty(tr.take())
	requireT.Error(d.Publish(ctx, wire.KindDeviceInfo, &wire.DeviceInfo{}))

	requireT.NoError(d.SetMode(SendReceive))
	d.Tick(ctx, time.Now())
	requireT.Len(tr.take(), 1)

	requireT.NoError(d.SetMode(ReceiveOnly))
	d.Tick(ctx, time.Now())
	requireT.Empty(tr.take())
}

func TestSendOnlyDeviceReceivesNothing(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendOnly)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	requireT.Empty(d.Receives())

	requireT.NoError(d.Connected(ctx, 1))
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{}))
	requireT.Zero(touches.Len())
}

func TestDeliverUpdatesMirror(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	info, err := Receive[wire.DeviceInfo](d, wire.KindDeviceInfo)
	requireT.NoError(err)
	requireT.Equal([]wire.Kind{wire.KindDeviceInfo, wire.KindTouches}, d.Receives())

	requireT.NoError(d.Connected(ctx, 1))
	d.Deliver(ctx, frame(requireT, wire.KindConnected, 2, 0, &wire.Connected{DeviceID: 2}))
	requireT.Equal([]wire.DeviceID{2}, d.Registry().Devices())

	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 1, &wire.Touches{Touches: []wire.Touch{{FingerID: 3}}}))
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{}))
	d.Deliver(ctx, frame(requireT, wire.KindDeviceInfo, 2, 0, &wire.DeviceInfo{Name: "two"}))

	v, exists := touches.Get(2)
	requireT.True(exists)
	requireT.Equal(wire.Touches{Touches: []wire.Touch{{FingerID: 3}}}, v)

	i, exists := info.Get(2)
	requireT.True(exists)
	requireT.Equal("two", i.Name)
}

func TestDisconnectRemovesSenderFromAllMirrors(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	transforms, err := Receive[wire.Transform](d, wire.KindTransform)
	requireT.NoError(err)

	var removed []wire.DeviceID
	touches.OnRemove(func(id wire.DeviceID) {
		removed = append(removed, id)
	})

	requireT.NoError(d.Connected(ctx, 1))
	d.Deliver(ctx, frame(requireT, wire.KindConnected, 2, 0, &wire.Connected{DeviceID: 2}))
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{}))
	d.Deliver(ctx, frame(requireT, wire.KindTransform, 2, 0, &wire.Transform{}))
	requireT.Equal(1, touches.Len())
	requireT.Equal(1, transforms.Len())

	d.Deliver(ctx, frame(requireT, wire.KindDisconnected, 2, 0, &wire.Disconnected{DeviceID: 2}))
	d.Deliver(ctx, frame(requireT, wire.KindDisconnected, 2, 0, &wire.Disconnected{DeviceID: 2}))
	requireT.Zero(touches.Len())
	requireT.Zero(transforms.Len())
	requireT.Equal([]wire.DeviceID{2}, removed)

	// Late frame does not resurrect the sender.
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 1, &wire.Touches{}))
	requireT.Zero(touches.Len())
	requireT.False(d.Registry().Contains(2))
}

func TestFirstContactRegistersSender(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	requireT.NoError(d.Connected(ctx, 1))

	d.Deliver(ctx, frame(requireT, wire.KindTouches, 3, 0, &wire.Touches{}))
	requireT.True(d.Registry().Contains(3))
	requireT.Equal(1, touches.Len())

	// Connected notice arriving after the first frame is tolerated.
	d.Deliver(ctx, frame(requireT, wire.KindConnected, 3, 0, &wire.Connected{DeviceID: 3}))
	requireT.Equal(1, touches.Len())
}

func TestConnectionLossClearsMirrors(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	requireT.NoError(d.Connected(ctx, 1))

	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{}))
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 3, 0, &wire.Touches{}))
	requireT.Equal(2, touches.Len())

	d.Disconnected(ctx, nil)
	_, connected := d.ID()
	requireT.False(connected)
	requireT.Zero(touches.Len())
	requireT.Zero(d.Registry().Len())

	requireT.NoError(d.Connected(ctx, 4))
	d.Deliver(ctx, frame(requireT, wire.KindConnected, 2, 0, &wire.Connected{DeviceID: 2}))
	d.Deliver(ctx, frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{}))
	requireT.Equal(1, touches.Len())
}

func TestMalformedFramesAreDiscarded(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	requireT.NoError(d.Connected(ctx, 1))

	f := frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{Touches: []wire.Touch{{FingerID: 1}}})
	f.Content = f.Content[:len(f.Content)-1]
	d.Deliver(ctx, f)

	f = frame(requireT, wire.KindTouches, 2, 0, &wire.Touches{})
	f.Header.Version = 7
	d.Deliver(ctx, f)

	f = frame(requireT, wire.KindConnected, 3, 0, &wire.Connected{DeviceID: 3})
	f.Header.Version = 2
	d.Deliver(ctx, f)
	d.Deliver(ctx, wire.Frame{Header: wire.Header{Kind: wire.ApplicationKind(5), Sender: 2}})

	requireT.Zero(touches.Len())
	requireT.Zero(d.Registry().Len())
}

func TestReceiveValidatesKind(t *testing.T) {
	requireT := require.New(t)
	_, d, _ := newDevice(t, SendReceive)

	_, err := Receive[wire.Connected](d, wire.KindConnected)
	requireT.Error(err)
	_, err = Receive[wire.Touches](d, wire.KindTransform)
	requireT.Error(err)
	_, err = Receive[wire.Touches](d, wire.ApplicationKind(1))
	requireT.Error(err)

	_, err = Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	_, err = Receive[wire.Touches](d, wire.KindTouches)
	requireT.Error(err)
}

func TestPublishApplicationKind(t *testing.T) {
	requireT := require.New(t)

	catalog := wire.NewCatalog()
	kind := wire.ApplicationKind(1)
	requireT.NoError(catalog.Define(wire.Definition{
		Kind:        kind,
		Name:        "Score",
		Version:     2,
		Reliability: wire.Reliable,
		Marshaller:  wire.NewMarshaller(),
		Message:     &wire.Connected{},
	}))

	tr := &transport{}
	d, err := New(Config{Catalog: catalog, Transport: tr})
	requireT.NoError(err)
	ctx := qa.NewContext(t)

	requireT.ErrorIs(d.Publish(ctx, kind, &wire.Connected{DeviceID: 10}), ErrNotConnected)
	requireT.NoError(d.Connected(ctx, 3))
	requireT.NoError(d.Publish(ctx, kind, &wire.Connected{DeviceID: 10}))
	requireT.NoError(d.Publish(ctx, kind, &wire.Connected{DeviceID: 11}))
	requireT.Error(d.Publish(ctx, kind, &wire.DeviceInfo{}))
	requireT.Error(d.Publish(ctx, wire.KindDisconnected, &wire.Disconnected{}))

	s := tr.take()
	requireT.Len(s, 2)
	requireT.Equal(wire.Reliable, s[1].Reliability)
	requireT.Equal(wire.Header{Kind: kind, Sender: 3, Revision: 1, Version: 2}, s[1].Frame.Header)

	payload, err := catalog.Decode(s[1].Frame)
	requireT.NoError(err)
	requireT.Equal(&wire.Connected{DeviceID: 11}, payload)
}

func TestTransportErrorsAreReported(t *testing.T) {
	requireT := require.New(t)

	errTransport := errors.New("broken")
	tr := &transport{err: errTransport}
	var reported []error
	d, err := New(Config{
		Transport: tr,
		OnError: func(err error) {
			reported = append(reported, err)
		},
	})
	requireT.NoError(err)
	ctx := qa.NewContext(t)

	requireT.NoError(d.AddChannel(channel.Orientation(func() wire.Orientation {
		return wire.OrientationPortrait
	}, func() schedule.Scheduler {
		return schedule.Frames(1)
	})))
	requireT.NoError(d.Connected(ctx, 1))
	d.Tick(ctx, time.Now())

	requireT.Equal(1, tr.calls)
	requireT.Len(reported, 1)
	requireT.ErrorIs(reported[0], errTransport)
}

func TestConnectionLossIsReported(t *testing.T) {
	requireT := require.New(t)

	var reported []error
	d, err := New(Config{
		Transport: &transport{},
		OnError: func(err error) {
			reported = append(reported, err)
		},
	})
	requireT.NoError(err)
	ctx := qa.NewContext(t)

	// Disconnection of not connected device is not reported.
	d.Disconnected(ctx, errors.New("dial failed"))
	requireT.Empty(reported)

	requireT.NoError(d.Connected(ctx, 1))
	d.Disconnected(ctx, errors.New("connection reset"))
	requireT.Len(reported, 1)
	requireT.ErrorIs(reported[0], ErrConnectionLost)
	requireT.Contains(reported[0].Error(), "connection reset")

	// Closing the connection on shutdown is not an error.
	requireT.NoError(d.Connected(ctx, 2))
	d.Disconnected(ctx, nil)
	requireT.Len(reported, 1)
}

func TestDepartedDevicesAreRememberedWithinLimit(t *testing.T) {
	requireT := require.New(t)
	ctx, d, _ := newDevice(t, SendReceive)

	touches, err := Receive[wire.Touches](d, wire.KindTouches)
	requireT.NoError(err)
	requireT.NoError(d.Connected(ctx, 1))

	const cycles = 3 * registry.TombstoneLimit
	for id := wire.DeviceID(2); id < cycles; id++ {
		d.Deliver(ctx, frame(requireT, wire.KindConnected, id, 0, &wire.Connected{DeviceID: id}))
		d.Deliver(ctx, frame(requireT, wire.KindTouches, id, 0, &wire.Touches{}))
		d.Deliver(ctx, frame(requireT, wire.KindDisconnected, id, 0, &wire.Disconnected{DeviceID: id}))
	}

	requireT.Zero(touches.Len())
	requireT.Zero(d.Registry().Len())
	requireT.Equal(registry.TombstoneLimit, d.departed.Len())

	// Latest departed device is still ignored.
	d.Deliver(ctx, frame(requireT, wire.KindTouches, cycles-1, 1, &wire.Touches{}))
	requireT.Zero(touches.Len())
}
