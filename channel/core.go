package channel

import (
	"github.com/outofforest/pulse/aggregate"
	"github.com/outofforest/pulse/schedule"
	"github.com/outofforest/pulse/wire"
)

// Touches returns factory of channels averaging touches.
func Touches(source func() []wire.Touch, scheduler func() schedule.Scheduler) Factory {
	return func() Runner {
		return New[[]wire.Touch](Config{Kind: wire.KindTouches, Reliability: wire.Unreliable},
			aggregate.NewTouches(), source, scheduler())
	}
}

// Acceleration returns factory of channels summing acceleration.
func Acceleration(source func() wire.Acceleration, scheduler func() schedule.Scheduler) Factory {
	return func() Runner {
		return New[wire.Acceleration](Config{Kind: wire.KindAcceleration, Reliability: wire.Unreliable},
			aggregate.NewAcceleration(), source, scheduler())
	}
}

// AccelerationEvents returns factory of channels coalescing acceleration events.
func AccelerationEvents(
	source func() aggregate.AccelerationEventsSample,
	scheduler func() schedule.Scheduler,
) Factory {
	return func() Runner {
		return New[aggregate.AccelerationEventsSample](
			Config{Kind: wire.KindAccelerationEvents, Reliability: wire.Unreliable},
			aggregate.NewAccelerationEvents(), source, scheduler())
	}
}

// Orientation returns factory of channels sending orientation transitions.
func Orientation(source func() wire.Orientation, scheduler func() schedule.Scheduler) Factory {
	return func() Runner {
		return New[wire.Orientation](Config{Kind: wire.KindDeviceOrientation, Reliability: wire.Reliable},
			aggregate.NewOrientation(), source, scheduler())
	}
}

// Transform returns factory of channels sending pose changes exceeding the thresholds.
func Transform(
	config aggregate.TransformConfig,
	source func() wire.Transform,
	scheduler func() schedule.Scheduler,
) Factory {
	return func() Runner {
		return New[wire.Transform](Config{Kind: wire.KindTransform, Reliability: wire.Unreliable},
			aggregate.NewTransform(config), source, scheduler())
	}
}

// DeviceInfo returns factory of channels sending device info whenever it changes.
func DeviceInfo(source func() wire.DeviceInfo) Factory {
	return func() Runner {
		return New[wire.DeviceInfo](Config{Kind: wire.KindDeviceInfo, Reliability: wire.Reliable},
			aggregate.NewLatest[wire.DeviceInfo](), source, schedule.Frames(1))
	}
}
