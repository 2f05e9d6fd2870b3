package aggregate

import (
	"github.com/outofforest/pulse/wire"
)

var _ Aggregator[wire.Transform] = &Transform{}

// TransformConfig defines thresholds of transform change detection.
type TransformConfig struct {
	PositionThreshold float64
	RotationThreshold float64
}

// DefaultTransformConfig is the default transform config.
var DefaultTransformConfig = TransformConfig{
	PositionThreshold: 0.001,
	RotationThreshold: 0.001,
}

// NewTransform creates transform change detector.
func NewTransform(config TransformConfig) *Transform {
	return &Transform{
		positionThreshold2: config.PositionThreshold * config.PositionThreshold,
		rotationThreshold2: config.RotationThreshold * config.RotationThreshold,
	}
}

// Transform sends the pose when it moved more than the threshold between two consecutive ticks.
// Baseline follows the observed pose on every tick, whether or not anything is sent.
type Transform struct {
	positionThreshold2 float64
	rotationThreshold2 float64

	baseline    wire.Transform
	initialized bool
	changed     bool
}

// Accumulate implements Aggregator.
func (a *Transform) Accumulate(transform wire.Transform) {
	switch {
	case !a.initialized:
		a.initialized = true
		a.changed = true
	case positionDistance2(a.baseline.Position, transform.Position) > a.positionThreshold2,
		rotationDistance2(a.baseline.Rotation, transform.Rotation) > a.rotationThreshold2:
		a.changed = true
	}
	a.baseline = transform
}

// Flush implements Aggregator.
func (a *Transform) Flush() (any, bool) {
	if !a.changed {
		return nil, false
	}
	a.changed = false

	transform := a.baseline
	return &transform, true
}

// Baseline returns the last observed pose.
func (a *Transform) Baseline() wire.Transform {
	return a.baseline
}

func positionDistance2(p1, p2 wire.Vector3) float64 {
	return squaredMagnitude(wire.Vector3{X: p1.X - p2.X, Y: p1.Y - p2.Y, Z: p1.Z - p2.Z})
}

func rotationDistance2(r1, r2 wire.Quaternion) float64 {
	dx := r1.X - r2.X
	dy := r1.Y - r2.Y
	dz := r1.Z - r2.Z
	dw := r1.W - r2.W
	return dx*dx + dy*dy + dz*dz + dw*dw
}
