package aggregate

import (
	"github.com/outofforest/pulse/wire"
)

// eventEpsilon is the squared magnitude below which two acceleration events are considered equal.
const eventEpsilon = 1e-10

var (
	_ Aggregator[wire.Acceleration]        = &Acceleration{}
	_ Aggregator[AccelerationEventsSample] = &AccelerationEvents{}
)

type accelerationSum struct {
	acceleration wire.Vector3
	deltaTime    float64
}

func (s *accelerationSum) add(acceleration wire.Vector3, deltaTime float64) {
	s.acceleration.X += acceleration.X
	s.acceleration.Y += acceleration.Y
	s.acceleration.Z += acceleration.Z
	s.deltaTime += deltaTime
}

func (s *accelerationSum) empty() bool {
	return squaredMagnitude(s.acceleration) == 0
}

// NewAcceleration creates aggregator summing acceleration over time.
func NewAcceleration() *Acceleration {
	return &Acceleration{
		gate: newEmptyGate(),
	}
}

// Acceleration sums acceleration vectors and elapsed time between flushes.
type Acceleration struct {
	sum  accelerationSum
	gate emptyGate
}

// Accumulate implements Aggregator.
func (a *Acceleration) Accumulate(sample wire.Acceleration) {
	a.sum.add(sample.Acceleration, sample.DeltaTime)
}

// Flush implements Aggregator.
func (a *Acceleration) Flush() (any, bool) {
	sum := a.sum
	a.sum = accelerationSum{}

	if !a.gate.pass(sum.empty()) {
		return nil, false
	}
	return &wire.Acceleration{
		Acceleration: sum.acceleration,
		DeltaTime:    sum.deltaTime,
	}, true
}

// AccelerationEventsSample is the acceleration state sampled on a tick.
type AccelerationEventsSample struct {
	Acceleration wire.Vector3
	DeltaTime    float64

	// Events are hardware events reported since the previous tick.
	Events []wire.AccelerationEvent
}

// NewAccelerationEvents creates aggregator coalescing acceleration events.
func NewAccelerationEvents() *AccelerationEvents {
	return &AccelerationEvents{
		gate: newEmptyGate(),
	}
}

// AccelerationEvents queues acceleration events in chronological order skipping events equal to
// the preceding queued one. Running sum of acceleration is flushed together with the queue.
type AccelerationEvents struct {
	events []wire.AccelerationEvent
	sum    accelerationSum
	gate   emptyGate
}

// Accumulate implements Aggregator.
func (a *AccelerationEvents) Accumulate(sample AccelerationEventsSample) {
	a.sum.add(sample.Acceleration, sample.DeltaTime)
	for _, e := range sample.Events {
		if len(a.events) > 0 && sameEvent(a.events[len(a.events)-1], e) {
			continue
		}
		a.events = append(a.events, e)
	}
}

// Flush implements Aggregator.
func (a *AccelerationEvents) Flush() (any, bool) {
	events := a.events
	sum := a.sum
	a.events = nil
	a.sum = accelerationSum{}

	if !a.gate.pass(len(events) == 0 && sum.empty()) {
		return nil, false
	}
	return &wire.AccelerationEvents{
		Events:       events,
		Acceleration: sum.acceleration,
		DeltaTime:    sum.deltaTime,
	}, true
}

func sameEvent(e1, e2 wire.AccelerationEvent) bool {
	return squaredMagnitude(wire.Vector3{
		X: e1.Acceleration.X - e2.Acceleration.X,
		Y: e1.Acceleration.Y - e2.Acceleration.Y,
		Z: e1.Acceleration.Z - e2.Acceleration.Z,
	}) < eventEpsilon
}

func squaredMagnitude(v wire.Vector3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}
