package hub

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/pulse/queue"
	"github.com/outofforest/pulse/registry"
	"github.com/outofforest/pulse/wire"
)

// ErrAlreadyConnected is returned if device with the same ID is connected.
var ErrAlreadyConnected = errors.New("device already connected")

// Config is the configuration of the hub.
type Config struct {
	// Registry is required, hub follows it to learn about disconnected devices.
	Registry *registry.Registry

	// Catalog defaults to the catalog of core kinds.
	Catalog *wire.Catalog

	// QueueLimit is the number of unreliable frames buffered for each device.
	QueueLimit int

	// RejectUnknownKinds discards frames of application kinds not defined in the catalog. Otherwise
	// they are relayed as unreliable ones.
	RejectUnknownKinds bool
}

type retainKey struct {
	Kind   wire.Kind
	Sender wire.DeviceID
}

// Peer is the connected device as seen by the hub.
type Peer struct {
	id       wire.DeviceID
	receives map[wire.Kind]struct{}
	queue    *queue.Queue

	// announced is set, under the hub lock, once other peers have been notified about the device.
	announced bool
}

// ID returns ID of the device.
func (p *Peer) ID() wire.DeviceID {
	return p.id
}

// Next returns next frame to be sent to the device.
func (p *Peer) Next(ctx context.Context) (wire.Frame, error) {
	return p.queue.Next(ctx)
}

func (p *Peer) wants(kind wire.Kind) bool {
	if kind.IsLifecycle() {
		return true
	}
	_, exists := p.receives[kind]
	return exists
}

// PeerStatus describes connected device.
type PeerStatus struct {
	ID       wire.DeviceID `json:"id"`
	Receives []wire.Kind   `json:"receives"`
	Queued   int           `json:"queued"`
	Dropped  uint64        `json:"dropped"`
}

// Hub relays frames received from each device to all the other devices.
type Hub struct {
	catalog            *wire.Catalog
	registry           *registry.Registry
	queueLimit         int
	rejectUnknownKinds bool

	mu       sync.RWMutex
	peers    map[wire.DeviceID]*Peer
	retained map[retainKey]wire.Frame
}

// New creates hub.
func New(config Config) (*Hub, error) {
	if config.Registry == nil {
		return nil, errors.New("device registry is not configured")
	}
	if config.Catalog == nil {
		config.Catalog = wire.NewCatalog()
	}

	h := &Hub{
		catalog:            config.Catalog,
		registry:           config.Registry,
		queueLimit:         config.QueueLimit,
		rejectUnknownKinds: config.RejectUnknownKinds,
		peers:              map[wire.DeviceID]*Peer{},
		retained:           map[retainKey]wire.Frame{},
	}
	config.Registry.Subscribe(registry.ObserverFuncs{
		Connected:    h.deviceConnected,
		Disconnected: h.deviceDisconnected,
	})
	return h, nil
}

// Connect registers device. Returned peer already contains announcements of devices connected
// earlier and the retained frames sent by them.
func (h *Hub) Connect(ctx context.Context, id wire.DeviceID, receives []wire.Kind) (*Peer, error) {
	peer := &Peer{
		id:       id,
		receives: map[wire.Kind]struct{}{},
		queue:    queue.New(h.queueLimit),
	}
	for _, k := range receives {
		if k.Valid() && !k.IsLifecycle() {
			peer.receives[k] = struct{}{}
		}
	}

	h.mu.Lock()
	if _, exists := h.peers[id]; exists {
		h.mu.Unlock()
		return nil, errors.Wrapf(ErrAlreadyConnected, "device %d", id)
	}

	// Peers not announced yet will be announced to this one by deviceConnected.
	others := lo.Keys(lo.PickBy(h.peers, func(_ wire.DeviceID, p *Peer) bool {
		return p.announced
	}))
	slices.Sort(others)
	for _, other := range others {
		peer.queue.Push(h.lifecycleFrame(wire.KindConnected, other), wire.Reliable)
	}

	retained := lo.Filter(lo.Values(h.retained), func(f wire.Frame, _ int) bool {
		return peer.wants(f.Header.Kind)
	})
	slices.SortFunc(retained, func(f1, f2 wire.Frame) int {
		return cmp.Or(cmp.Compare(f1.Header.Sender, f2.Header.Sender), cmp.Compare(f1.Header.Kind, f2.Header.Kind))
	})
	for _, f := range retained {
		peer.queue.Push(f, wire.Reliable)
	}

	h.peers[id] = peer
	h.mu.Unlock()

	if err := h.registry.Register(id); err != nil {
		h.mu.Lock()
		delete(h.peers, id)
		h.mu.Unlock()
		peer.queue.Close()
		return nil, err
	}

	logger.Get(ctx).Info("Device connected",
		zap.Uint64("device", uint64(id)),
		zap.Int("devices", h.registry.Len()),
		zap.Int("backfill", len(retained)))

	return peer, nil
}

// Disconnect unregisters device. It is safe to call it many times.
func (h *Hub) Disconnect(ctx context.Context, id wire.DeviceID) {
	if h.registry.Unregister(id) {
		logger.Get(ctx).Info("Device disconnected", zap.Uint64("device", uint64(id)))
	}
}

// Receive relays frame received from the device to all the other devices which requested its kind.
// Sender is always set to the id of the device the frame has been received from.
func (h *Hub) Receive(ctx context.Context, id wire.DeviceID, frame wire.Frame) {
	kind := frame.Header.Kind
	if !kind.Valid() || kind.IsLifecycle() {
		logger.Get(ctx).Warn("Frame of invalid kind discarded",
			zap.Uint64("device", uint64(id)),
			zap.Stringer("kind", kind))
		return
	}
	if _, defined := h.catalog.Lookup(kind); !defined {
		if h.rejectUnknownKinds {
			logger.Get(ctx).Warn("Frame of unknown kind discarded",
				zap.Uint64("device", uint64(id)),
				zap.Stringer("kind", kind))
			return
		}
		logger.Get(ctx).Debug("Frame of unknown kind relayed",
			zap.Uint64("device", uint64(id)),
			zap.Stringer("kind", kind))
	}

	frame.Header.Sender = id

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.peers[id]; !exists {
		logger.Get(ctx).Debug("Frame from disconnected device discarded",
			zap.Uint64("device", uint64(id)),
			zap.Stringer("kind", kind))
		return
	}

	if h.catalog.Backfill(kind) {
		key := retainKey{Kind: kind, Sender: id}
		if existing, exists := h.retained[key]; exists && existing.Header.Revision >= frame.Header.Revision {
			return
		}
		h.retained[key] = frame
	}

	reliability := h.catalog.Reliability(kind)
	for peerID, p := range h.peers {
		if peerID == id || !p.wants(kind) {
			continue
		}
		p.queue.Push(frame, reliability)
	}
}

// Devices returns connected devices.
func (h *Hub) Devices() []wire.DeviceID {
	return h.registry.Devices()
}

// Status returns status of connected devices.
func (h *Hub) Status() []PeerStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := make([]PeerStatus, 0, len(h.peers))
	for _, p := range h.peers {
		receives := lo.Keys(p.receives)
		slices.Sort(receives)
		status = append(status, PeerStatus{
			ID:       p.id,
			Receives: receives,
			Queued:   p.queue.Len(),
			Dropped:  p.queue.Dropped(),
		})
	}
	slices.SortFunc(status, func(s1, s2 PeerStatus) int {
		return cmp.Compare(s1.ID, s2.ID)
	})
	return status
}

func (h *Hub) deviceConnected(id wire.DeviceID) {
	frame := h.lifecycleFrame(wire.KindConnected, id)

	h.mu.Lock()
	defer h.mu.Unlock()

	if peer, exists := h.peers[id]; exists {
		peer.announced = true
	}
	for peerID, p := range h.peers {
		if peerID != id {
			p.queue.Push(frame, wire.Reliable)
		}
	}
}

func (h *Hub) deviceDisconnected(id wire.DeviceID) {
	frame := h.lifecycleFrame(wire.KindDisconnected, id)

	h.mu.Lock()
	peer, exists := h.peers[id]
	delete(h.peers, id)
	for key := range h.retained {
		if key.Sender == id {
			delete(h.retained, key)
		}
	}
	for _, p := range h.peers {
		p.queue.Purge(id)
		p.queue.Push(frame, wire.Reliable)
	}
	h.mu.Unlock()

	if exists {
		peer.queue.Close()
	}
}

func (h *Hub) lifecycleFrame(kind wire.Kind, id wire.DeviceID) wire.Frame {
	var payload any = &wire.Connected{DeviceID: id}
	if kind == wire.KindDisconnected {
		payload = &wire.Disconnected{DeviceID: id}
	}

	frame := lo.Must(h.catalog.Encode(kind, payload))
	frame.Header.Sender = id
	return frame
}
