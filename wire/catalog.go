package wire

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/outofforest/proton"
)

// Definition describes message kind.
type Definition struct {
	Kind        Kind
	Name        string
	Version     Version
	Reliability Reliability

	// Backfill instructs the hub to keep the latest message of each sender and replay it to new devices.
	Backfill bool

	// Marshaller and Message may be left empty on the hub, which never decodes payloads.
	Marshaller proton.Marshaller
	Message    any
}

// Catalog keeps definitions of message kinds known to the process.
type Catalog struct {
	mu          sync.RWMutex
	definitions map[Kind]Definition
}

// NewCatalog creates catalog containing all the core kinds.
func NewCatalog() *Catalog {
	m := NewMarshaller()
	c := &Catalog{
		definitions: map[Kind]Definition{},
	}
	for _, d := range []Definition{
		{Kind: KindConnected, Version: 1, Reliability: Reliable, Message: &Connected{}},
		{Kind: KindDisconnected, Version: 1, Reliability: Reliable, Message: &Disconnected{}},
		{Kind: KindDeviceInfo, Version: 1, Reliability: Reliable, Backfill: true, Message: &DeviceInfo{}},
		{Kind: KindTouches, Version: 1, Reliability: Unreliable, Message: &Touches{}},
		{Kind: KindAcceleration, Version: 1, Reliability: Unreliable, Message: &Acceleration{}},
		{Kind: KindAccelerationEvents, Version: 1, Reliability: Unreliable, Message: &AccelerationEvents{}},
		{Kind: KindDeviceOrientation, Version: 1, Reliability: Reliable, Message: &DeviceOrientation{}},
		{Kind: KindTransform, Version: 1, Reliability: Unreliable, Message: &Transform{}},
	} {
		d.Name = d.Kind.String()
		d.Marshaller = m
		c.definitions[d.Kind] = d
	}
	return c
}

// Define adds application-defined kind.
func (c *Catalog) Define(d Definition) error {
	if !d.Kind.IsApplication() {
		return errors.Errorf("kind %d is reserved, application kinds start at %d", d.Kind, KindHighestCore+1)
	}
	if (d.Marshaller == nil) != (d.Message == nil) {
		return errors.Errorf("kind %s must define both marshaller and message or none of them", d.Kind)
	}
	if d.Marshaller != nil {
		if _, err := d.Marshaller.ID(d.Message); err != nil {
			return errors.Wrapf(err, "message of kind %s is not supported by its marshaller", d.Kind)
		}
	}
	if d.Name == "" {
		d.Name = d.Kind.String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.definitions[d.Kind]; exists {
		return errors.Errorf("kind %s has been already defined", d.Kind)
	}
	c.definitions[d.Kind] = d
	return nil
}

// Lookup returns definition of the kind.
func (c *Catalog) Lookup(kind Kind) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, exists := c.definitions[kind]
	return d, exists
}

// Reliability returns reliability of the kind, unknown application kinds are unreliable.
func (c *Catalog) Reliability(kind Kind) Reliability {
	d, exists := c.Lookup(kind)
	if !exists {
		return Unreliable
	}
	return d.Reliability
}

// Backfill returns true if the hub should retain latest message of the kind.
func (c *Catalog) Backfill(kind Kind) bool {
	d, exists := c.Lookup(kind)
	return exists && d.Backfill
}

// Encode encodes payload of the kind. Sender and revision are left for the caller.
func (c *Catalog) Encode(kind Kind, payload any) (Frame, error) {
	d, err := c.definition(kind)
	if err != nil {
		return Frame{}, err
	}

	expectedID, err := d.Marshaller.ID(d.Message)
	if err != nil {
		return Frame{}, err
	}

	size, err := d.Marshaller.Size(payload)
	if err != nil {
		return Frame{}, errors.Wrapf(err, "payload of kind %s", kind)
	}

	buf := make([]byte, size)
	id, n, err := d.Marshaller.Marshal(payload, buf)
	if err != nil {
		return Frame{}, errors.Wrapf(err, "marshaling payload of kind %s", kind)
	}
	if id != expectedID {
		return Frame{}, errors.Errorf("payload %T does not match kind %s", payload, kind)
	}

	return Frame{
		Header: Header{
			Kind:    kind,
			Version: d.Version,
		},
		Content: buf[:n],
	}, nil
}

// Decode decodes payload of the frame.
func (c *Catalog) Decode(frame Frame) (any, error) {
	d, err := c.definition(frame.Header.Kind)
	if err != nil {
		return nil, err
	}
	if frame.Header.Version != d.Version {
		return nil, errors.Errorf("kind %s: unsupported version %d, expected %d", d.Kind,
			frame.Header.Version, d.Version)
	}

	id, err := d.Marshaller.ID(d.Message)
	if err != nil {
		return nil, err
	}

	msg, n, err := d.Marshaller.Unmarshal(id, frame.Content)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed payload of kind %s", d.Kind)
	}
	if n != uint64(len(frame.Content)) {
		return nil, errors.Errorf("malformed payload of kind %s: %d trailing bytes", d.Kind,
			uint64(len(frame.Content))-n)
	}
	return msg, nil
}

func (c *Catalog) definition(kind Kind) (Definition, error) {
	d, exists := c.Lookup(kind)
	if !exists {
		return Definition{}, errors.Errorf("unknown kind %s", kind)
	}
	if d.Marshaller == nil {
		return Definition{}, errors.Errorf("kind %s has no marshaller", kind)
	}
	return d, nil
}
