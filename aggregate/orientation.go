package aggregate

import (
	"github.com/outofforest/pulse/wire"
)

var _ Aggregator[wire.Orientation] = &Orientation{}

// NewOrientation creates aggregator recording orientation transitions.
func NewOrientation() *Orientation {
	return &Orientation{
		last: wire.OrientationUnknown,
	}
}

// Orientation queues orientation transitions, repeated values are collapsed.
type Orientation struct {
	last  wire.Orientation
	queue []wire.Orientation
}

// Accumulate implements Aggregator.
func (a *Orientation) Accumulate(orientation wire.Orientation) {
	if orientation == a.last {
		return
	}
	a.last = orientation
	a.queue = append(a.queue, orientation)
}

// Flush implements Aggregator.
func (a *Orientation) Flush() (any, bool) {
	if len(a.queue) == 0 {
		return nil, false
	}

	queue := a.queue
	a.queue = nil
	return &wire.DeviceOrientation{Orientations: queue}, true
}
