package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/pulse/wire"
)

type recorder struct {
	connected    []wire.DeviceID
	disconnected []wire.DeviceID
}

func (r *recorder) DeviceConnected(id wire.DeviceID) {
	r.connected = append(r.connected, id)
}

func (r *recorder) DeviceDisconnected(id wire.DeviceID) {
	r.disconnected = append(r.disconnected, id)
}

func TestRegisterNotifiesObservers(t *testing.T) {
	requireT := require.New(t)

	r := New()
	rec1 := &recorder{}
	rec2 := &recorder{}
	r.Subscribe(rec1)
	r.Subscribe(rec2)

	requireT.NoError(r.Register(2))
	requireT.NoError(r.Register(1))

	requireT.Equal([]wire.DeviceID{2, 1}, rec1.connected)
	requireT.Equal([]wire.DeviceID{2, 1}, rec2.connected)
	requireT.Equal([]wire.DeviceID{1, 2}, r.Devices())
	requireT.True(r.Contains(1))
	requireT.Equal(2, r.Len())
}

func TestRegisterTwiceFails(t *testing.T) {
	requireT := require.New(t)

	r := New()
	rec := &recorder{}
	r.Subscribe(rec)

	requireT.NoError(r.Register(1))
	requireT.ErrorIs(r.Register(1), ErrAlreadyRegistered)
	requireT.Equal([]wire.DeviceID{1}, rec.connected)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	requireT := require.New(t)

	r := New()
	rec := &recorder{}
	r.Subscribe(rec)

	requireT.False(r.Unregister(5))
	requireT.Empty(rec.disconnected)

	requireT.NoError(r.Register(5))
	requireT.True(r.Unregister(5))
	requireT.False(r.Unregister(5))
	requireT.Equal([]wire.DeviceID{5}, rec.disconnected)
	requireT.False(r.Contains(5))

	requireT.NoError(r.Register(5))
	requireT.Equal([]wire.DeviceID{5, 5}, rec.connected)
}

func TestUnsubscribe(t *testing.T) {
	requireT := require.New(t)

	r := New()
	rec := &recorder{}
	unsubscribe := r.Subscribe(rec)

	requireT.NoError(r.Register(1))
	unsubscribe()
	unsubscribe()
	requireT.True(r.Unregister(1))

	requireT.Equal([]wire.DeviceID{1}, rec.connected)
	requireT.Empty(rec.disconnected)
}

func TestUnregisterAll(t *testing.T) {
	requireT := require.New(t)

	r := New()
	var disconnected []wire.DeviceID
	r.Subscribe(ObserverFuncs{
		Disconnected: func(id wire.DeviceID) {
			disconnected = append(disconnected, id)
		},
	})

	requireT.NoError(r.Register(3))
	requireT.NoError(r.Register(1))
	r.UnregisterAll()

	requireT.Equal([]wire.DeviceID{1, 3}, disconnected)
	requireT.Zero(r.Len())
}
