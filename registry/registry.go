package registry

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/pulse/wire"
)

// ErrAlreadyRegistered is returned when device is registered twice.
var ErrAlreadyRegistered = errors.New("device already registered")

// Observer is notified about devices joining and leaving.
type Observer interface {
	DeviceConnected(id wire.DeviceID)
	DeviceDisconnected(id wire.DeviceID)
}

// ObserverFuncs adapts functions to Observer. Nil functions are skipped.
type ObserverFuncs struct {
	Connected    func(id wire.DeviceID)
	Disconnected func(id wire.DeviceID)
}

// DeviceConnected implements Observer.
func (o ObserverFuncs) DeviceConnected(id wire.DeviceID) {
	if o.Connected != nil {
		o.Connected(id)
	}
}

// DeviceDisconnected implements Observer.
func (o ObserverFuncs) DeviceDisconnected(id wire.DeviceID) {
	if o.Disconnected != nil {
		o.Disconnected(id)
	}
}

type subscription struct {
	observer Observer
}

// Registry tracks connected devices and notifies observers about changes.
//
// Observers are called synchronously, after the registry lock is released, so when Register or
// Unregister returns every observer has already seen the change. Observers must not call Register
// or Unregister.
type Registry struct {
	// notifyMu serializes notifications so observers see events in the order of registry changes.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	devices   map[wire.DeviceID]struct{}
	observers []*subscription
}

// New creates registry.
func New() *Registry {
	return &Registry{
		devices: map[wire.DeviceID]struct{}{},
	}
}

// Subscribe adds observer. Returned function removes it and may be called many times.
func (r *Registry) Subscribe(o Observer) func() {
	s := &subscription{observer: o}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers = append(r.observers, s)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.observers = lo.Without(r.observers, s)
	}
}

// Register adds device.
func (r *Registry) Register(id wire.DeviceID) error {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if _, exists := r.devices[id]; exists {
		r.mu.Unlock()
		return errors.Wrapf(ErrAlreadyRegistered, "device %d", id)
	}
	r.devices[id] = struct{}{}
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	for _, s := range observers {
		s.observer.DeviceConnected(id)
	}
	return nil
}

// Unregister removes device. It returns false if device was not registered.
func (r *Registry) Unregister(id wire.DeviceID) bool {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if _, exists := r.devices[id]; !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.devices, id)
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	for _, s := range observers {
		s.observer.DeviceDisconnected(id)
	}
	return true
}

// UnregisterAll removes all the devices.
func (r *Registry) UnregisterAll() {
	for _, id := range r.Devices() {
		r.Unregister(id)
	}
}

// Contains checks if device is registered.
func (r *Registry) Contains(id wire.DeviceID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.devices[id]
	return exists
}

// Devices returns sorted list of registered devices.
func (r *Registry) Devices() []wire.DeviceID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := lo.Keys(r.devices)
	slices.Sort(devices)
	return devices
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.devices)
}
