package registry

import "github.com/outofforest/pulse/wire"

// TombstoneLimit is the number of disconnected devices remembered by the tombstone set.
const TombstoneLimit = 1024

type tombstone struct {
	id  wire.DeviceID
	seq uint64
}

// Tombstones is the set of recently disconnected devices. When the limit is reached the device
// disconnected earliest is forgotten. It is not safe for concurrent use.
type Tombstones struct {
	limit int
	seq   uint64
	ids   map[wire.DeviceID]uint64
	order []tombstone
}

// NewTombstones creates tombstone set remembering up to limit devices.
func NewTombstones(limit int) *Tombstones {
	if limit <= 0 {
		limit = TombstoneLimit
	}
	return &Tombstones{
		limit: limit,
		ids:   map[wire.DeviceID]uint64{},
	}
}

// Add marks device as disconnected.
func (t *Tombstones) Add(id wire.DeviceID) {
	t.seq++
	t.ids[id] = t.seq
	t.order = append(t.order, tombstone{id: id, seq: t.seq})

	for len(t.ids) > t.limit {
		oldest := t.order[0]
		t.order = t.order[1:]
		if t.ids[oldest.id] == oldest.seq {
			delete(t.ids, oldest.id)
		}
	}

	// Entries of removed and re-added devices stay in order until they reach the front.
	if len(t.order) > 2*t.limit {
		order := make([]tombstone, 0, len(t.ids))
		for _, ts := range t.order {
			if t.ids[ts.id] == ts.seq {
				order = append(order, ts)
			}
		}
		t.order = order
	}
}

// Remove forgets device.
func (t *Tombstones) Remove(id wire.DeviceID) {
	delete(t.ids, id)
}

// Contains checks if device is marked as disconnected.
func (t *Tombstones) Contains(id wire.DeviceID) bool {
	_, exists := t.ids[id]
	return exists
}

// Len returns the number of remembered devices.
func (t *Tombstones) Len() int {
	return len(t.ids)
}

// Clear forgets all the devices.
func (t *Tombstones) Clear() {
	clear(t.ids)
	t.order = nil
}
