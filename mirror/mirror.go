package mirror

import (
	"sync"

	"github.com/samber/lo"

	"github.com/outofforest/pulse/registry"
	"github.com/outofforest/pulse/wire"
)

var _ registry.Observer = &Mirror[int]{}

type entry[T any] struct {
	revision wire.Revision
	value    T
}

// New creates mirror.
func New[T any]() *Mirror[T] {
	return &Mirror[T]{
		entries:    map[wire.DeviceID]entry[T]{},
		terminated: registry.NewTombstones(registry.TombstoneLimit),
	}
}

// Mirror keeps the latest value received from each remote device.
//
// Entries are created on the first value received from the device and removed only when the
// device disconnects. Disconnection is terminal: values arriving afterwards are ignored until the
// device connects again. Only the most recently disconnected devices are remembered, see
// registry.TombstoneLimit.
type Mirror[T any] struct {
	mu         sync.RWMutex
	entries    map[wire.DeviceID]entry[T]
	terminated *registry.Tombstones

	listenersMu sync.RWMutex
	onUpdate    []func(id wire.DeviceID, value T)
	onRemove    []func(id wire.DeviceID)
}

// Attach subscribes mirror to the registry.
func (m *Mirror[T]) Attach(r *registry.Registry) func() {
	return r.Subscribe(m)
}

// OnUpdate registers function called whenever value of a device changes.
func (m *Mirror[T]) OnUpdate(fn func(id wire.DeviceID, value T)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	m.onUpdate = append(m.onUpdate, fn)
}

// OnRemove registers function called when device is removed from the mirror.
func (m *Mirror[T]) OnRemove(fn func(id wire.DeviceID)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	m.onRemove = append(m.onRemove, fn)
}

// Apply stores value received from the device. It returns false if value was ignored because
// it is stale or device has been disconnected.
func (m *Mirror[T]) Apply(id wire.DeviceID, revision wire.Revision, value T) bool {
	m.mu.Lock()
	if m.terminated.Contains(id) {
		m.mu.Unlock()
		return false
	}
	if e, exists := m.entries[id]; exists && e.revision >= revision {
		m.mu.Unlock()
		return false
	}
	m.entries[id] = entry[T]{revision: revision, value: value}
	m.mu.Unlock()

	m.listenersMu.RLock()
	defer m.listenersMu.RUnlock()

	for _, fn := range m.onUpdate {
		fn(id, value)
	}
	return true
}

// Get returns the value of the device.
func (m *Mirror[T]) Get(id wire.DeviceID) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[id]
	return e.value, exists
}

// Snapshot returns copy of all the values.
func (m *Mirror[T]) Snapshot() map[wire.DeviceID]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[wire.DeviceID]T, len(m.entries))
	for id, e := range m.entries {
		snapshot[id] = e.value
	}
	return snapshot
}

// Devices returns devices present in the mirror.
func (m *Mirror[T]) Devices() []wire.DeviceID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Keys(m.entries)
}

// Len returns the number of devices in the mirror.
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// DeviceConnected implements registry.Observer.
func (m *Mirror[T]) DeviceConnected(id wire.DeviceID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.terminated.Remove(id)
}

// DeviceDisconnected implements registry.Observer.
func (m *Mirror[T]) DeviceDisconnected(id wire.DeviceID) {
	m.mu.Lock()
	_, exists := m.entries[id]
	delete(m.entries, id)
	m.terminated.Add(id)
	m.mu.Unlock()

	if !exists {
		return
	}

	m.listenersMu.RLock()
	defer m.listenersMu.RUnlock()

	for _, fn := range m.onRemove {
		fn(id)
	}
}
