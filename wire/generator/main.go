package main

import (
	"github.com/outofforest/proton"
	"github.com/outofforest/pulse/wire"
)

//go:generate go run .
func main() {
	proton.Generate("../types.proton.go",
		proton.Message[wire.Hello](),
		proton.Message[wire.Welcome](),
		proton.Message[wire.Header](),
		proton.Message[wire.Connected](),
		proton.Message[wire.Disconnected](),
		proton.Message[wire.DeviceInfo](),
		proton.Message[wire.Touches](),
		proton.Message[wire.Acceleration](),
		proton.Message[wire.AccelerationEvents](),
		proton.Message[wire.DeviceOrientation](),
		proton.Message[wire.Transform](),
	)
}
