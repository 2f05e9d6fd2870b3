package device

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/pulse/channel"
	"github.com/outofforest/pulse/mirror"
	"github.com/outofforest/pulse/registry"
	"github.com/outofforest/pulse/wire"
)

var (
	// ErrNotConnected is returned when payload is published while device is disconnected.
	ErrNotConnected = errors.New("device is not connected")

	// ErrConnectionLost is reported when connection to the hub is lost.
	ErrConnectionLost = errors.New("connection to hub lost")
)

// Mode defines what device does with the state.
type Mode int

// Modes.
const (
	SendReceive Mode = iota
	SendOnly
	ReceiveOnly
)

func (m Mode) sends() bool {
	return m != ReceiveOnly
}

func (m Mode) receives() bool {
	return m != SendOnly
}

// Transport delivers frames to the hub. Send must not block, delivery is not confirmed.
type Transport interface {
	Send(frame wire.Frame, reliability wire.Reliability) error
}

// Config is the configuration of the device.
type Config struct {
	// Catalog defaults to the catalog of core kinds.
	Catalog *wire.Catalog

	// Transport is required.
	Transport Transport

	Mode Mode

	// OnError is called when frame can't be handed to the transport and when connection to the hub
	// is lost.
	OnError func(err error)
}

type subscription struct {
	apply func(id wire.DeviceID, revision wire.Revision, payload any) bool
}

type flushed struct {
	kind        wire.Kind
	reliability wire.Reliability
	payload     any
}

// New creates device.
func New(config Config) (*Device, error) {
	if config.Transport == nil {
		return nil, errors.New("transport is not configured")
	}
	if config.Catalog == nil {
		config.Catalog = wire.NewCatalog()
	}

	return &Device{
		catalog:       config.Catalog,
		transport:     config.Transport,
		onError:       config.OnError,
		registry:      registry.New(),
		mode:          config.Mode,
		revisions:     map[wire.Kind]wire.Revision{},
		departed:      registry.NewTombstones(registry.TombstoneLimit),
		subscriptions: map[wire.Kind]subscription{},
	}, nil
}

// Device runs sync channels sending local state and mirrors of state received from other devices.
//
// Tick is called by the tick loop of the host while Deliver is called by the transport,
// possibly from other goroutine.
type Device struct {
	catalog   *wire.Catalog
	transport Transport
	onError   func(err error)
	registry  *registry.Registry

	mu        sync.Mutex
	mode      Mode
	self      wire.DeviceID
	connected bool
	factories []channel.Factory
	channels  []channel.Runner
	revisions map[wire.Kind]wire.Revision
	departed  *registry.Tombstones

	subscriptionsMu sync.RWMutex
	subscriptions   map[wire.Kind]subscription
}

// Registry returns the registry of remote devices.
func (d *Device) Registry() *registry.Registry {
	return d.registry
}

// ID returns the id assigned by the hub. It is valid only when device is connected.
func (d *Device) ID() (wire.DeviceID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.self, d.connected
}

// AddChannel adds sync channel. If device is connected, channel starts immediately.
func (d *Device) AddChannel(factory channel.Factory) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.factories = append(d.factories, factory)
	if !d.connected {
		return nil
	}

	c, err := d.startChannel(factory)
	if err != nil {
		return err
	}
	d.channels = append(d.channels, c)
	return nil
}

// Receive installs subscription for the kind and returns the mirror keeping values received from
// other devices. Subscriptions are announced to the hub when connection is established.
func Receive[T any](d *Device, kind wire.Kind) (*mirror.Mirror[T], error) {
	if !kind.Valid() || kind.IsLifecycle() {
		return nil, errors.Errorf("kind %s can't be received", kind)
	}
	def, exists := d.catalog.Lookup(kind)
	if !exists || def.Message == nil {
		return nil, errors.Errorf("kind %s is not defined", kind)
	}
	if _, ok := def.Message.(*T); !ok {
		var v *T
		return nil, errors.Errorf("kind %s carries %T, not %T", kind, def.Message, v)
	}

	m := mirror.New[T]()

	d.subscriptionsMu.Lock()
	defer d.subscriptionsMu.Unlock()

	if _, exists := d.subscriptions[kind]; exists {
		return nil, errors.Errorf("kind %s is already received", kind)
	}

	m.Attach(d.registry)
	d.subscriptions[kind] = subscription{
		apply: func(id wire.DeviceID, revision wire.Revision, payload any) bool {
			v, ok := payload.(*T)
			if !ok {
				return false
			}
			return m.Apply(id, revision, *v)
		},
	}
	return m, nil
}

// Receives returns kinds the device wants to receive.
func (d *Device) Receives() []wire.Kind {
	d.mu.Lock()
	mode := d.mode
	d.mu.Unlock()

	if !mode.receives() {
		return nil
	}

	d.subscriptionsMu.RLock()
	defer d.subscriptionsMu.RUnlock()

	kinds := lo.Keys(d.subscriptions)
	slices.Sort(kinds)
	return kinds
}

// Connected is called by the transport when hub accepted the device.
func (d *Device) Connected(ctx context.Context, self wire.DeviceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopChannels()
	d.self = self
	d.connected = true
	clear(d.revisions)
	d.departed.Clear()

	if err := d.startChannels(); err != nil {
		return err
	}

	logger.Get(ctx).Info("Device connected to hub",
		zap.Uint64("device", uint64(self)),
		zap.Int("channels", len(d.channels)))
	return nil
}

// Disconnected is called by the transport when connection is lost. Channels are stopped and all
// the remote devices are removed from the mirrors. Non-nil cause is reported as ErrConnectionLost.
func (d *Device) Disconnected(ctx context.Context, cause error) {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return
	}
	d.stopChannels()
	d.connected = false
	d.departed.Clear()
	self := d.self
	d.mu.Unlock()

	d.registry.UnregisterAll()

	logger.Get(ctx).Info("Device disconnected from hub", zap.Uint64("device", uint64(self)))

	if cause != nil {
		d.reportError(ctx, errors.Wrapf(ErrConnectionLost, "device %d: %s", self, cause))
	}
}

// SetMode changes the mode. Channels of connected device are restarted.
func (d *Device) SetMode(mode Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode == mode {
		return nil
	}
	d.mode = mode
	if !d.connected {
		return nil
	}

	d.stopChannels()
	return d.startChannels()
}

// Tick runs all the channels and sends flushed payloads.
func (d *Device) Tick(ctx context.Context, now time.Time) {
	var errs []error

	d.mu.Lock()
	if d.connected {
		var out []flushed
		for _, c := range d.channels {
			if payload, send := c.Tick(now); send {
				out = append(out, flushed{
					kind:        c.Kind(),
					reliability: c.Reliability(),
					payload:     payload,
				})
			}
		}
		for _, f := range out {
			if err := d.send(f.kind, f.reliability, f.payload); err != nil {
				errs = append(errs, err)
			}
		}
	}
	d.mu.Unlock()

	for _, err := range errs {
		d.reportError(ctx, err)
	}
}

// Publish sends one-shot payload of the kind.
func (d *Device) Publish(ctx context.Context, kind wire.Kind, payload any) error {
	if !kind.Valid() || kind.IsLifecycle() {
		return errors.Errorf("kind %s can't be published", kind)
	}

	d.mu.Lock()
	var err error
	switch {
	case !d.connected:
		err = errors.WithStack(ErrNotConnected)
	case !d.mode.sends():
		err = errors.Errorf("sending is disabled, kind %s not published", kind)
	default:
		err = d.send(kind, d.catalog.Reliability(kind), payload)
	}
	d.mu.Unlock()

	if err != nil {
		d.reportError(ctx, err)
	}
	return err
}

// Deliver processes frame received from the hub.
func (d *Device) Deliver(ctx context.Context, frame wire.Frame) {
	log := logger.Get(ctx)
	kind := frame.Header.Kind
	sender := frame.Header.Sender

	switch kind {
	case wire.KindConnected, wire.KindDisconnected:
		d.deliverLifecycle(ctx, frame)
		return
	}

	d.mu.Lock()
	mode := d.mode
	departed := d.departed.Contains(sender)
	d.mu.Unlock()

	if !mode.receives() || departed {
		return
	}

	d.subscriptionsMu.RLock()
	sub, exists := d.subscriptions[kind]
	d.subscriptionsMu.RUnlock()
	if !exists {
		log.Debug("Frame of not requested kind discarded",
			zap.Stringer("kind", kind),
			zap.Uint64("sender", uint64(sender)))
		return
	}

	payload, err := d.catalog.Decode(frame)
	if err != nil {
		log.Warn("Malformed frame discarded",
			zap.Stringer("kind", kind),
			zap.Uint64("sender", uint64(sender)),
			zap.Error(err))
		return
	}

	if !d.registry.Contains(sender) {
		if err := d.registry.Register(sender); err != nil && !errors.Is(err, registry.ErrAlreadyRegistered) {
			log.Warn("Registering sender failed", zap.Uint64("sender", uint64(sender)), zap.Error(err))
		}
	}

	if !sub.apply(sender, frame.Header.Revision, payload) {
		log.Debug("Stale frame discarded",
			zap.Stringer("kind", kind),
			zap.Uint64("sender", uint64(sender)),
			zap.Uint64("revision", uint64(frame.Header.Revision)))
	}
}

func (d *Device) deliverLifecycle(ctx context.Context, frame wire.Frame) {
	payload, err := d.catalog.Decode(frame)
	if err != nil {
		logger.Get(ctx).Warn("Malformed lifecycle frame discarded",
			zap.Stringer("kind", frame.Header.Kind),
			zap.Error(err))
		return
	}

	switch msg := payload.(type) {
	case *wire.Connected:
		d.mu.Lock()
		d.departed.Remove(msg.DeviceID)
		self := d.self
		d.mu.Unlock()

		if msg.DeviceID == self {
			return
		}
		if err := d.registry.Register(msg.DeviceID); err != nil && !errors.Is(err, registry.ErrAlreadyRegistered) {
			logger.Get(ctx).Warn("Registering device failed",
				zap.Uint64("device", uint64(msg.DeviceID)),
				zap.Error(err))
		}
	case *wire.Disconnected:
		d.mu.Lock()
		d.departed.Add(msg.DeviceID)
		d.mu.Unlock()

		d.registry.Unregister(msg.DeviceID)
	}
}

func (d *Device) send(kind wire.Kind, reliability wire.Reliability, payload any) error {
	frame, err := d.catalog.Encode(kind, payload)
	if err != nil {
		return err
	}

	frame.Header.Sender = d.self
	frame.Header.Revision = d.revisions[kind]
	d.revisions[kind]++

	return d.transport.Send(frame, reliability)
}

func (d *Device) reportError(ctx context.Context, err error) {
	logger.Get(ctx).Warn("Transport error", zap.Error(err))
	if d.onError != nil {
		d.onError(err)
	}
}

func (d *Device) startChannels() error {
	for _, f := range d.factories {
		c, err := d.startChannel(f)
		if err != nil {
			return err
		}
		d.channels = append(d.channels, c)
	}
	return nil
}

func (d *Device) startChannel(factory channel.Factory) (channel.Runner, error) {
	c := factory()
	if err := c.Register(); err != nil {
		return nil, err
	}
	if err := c.Activate(d.mode.sends()); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *Device) stopChannels() {
	for _, c := range d.channels {
		c.Stop()
	}
	d.channels = nil
}
