package wire

import "fmt"

// Core kinds.
const (
	KindConnected Kind = iota + 1
	KindDisconnected
	KindDeviceInfo
	KindTouches
	KindAcceleration
	KindAccelerationEvents
	KindDeviceOrientation
	KindTransform

	// KindHighestCore is the watermark reserved for core kinds.
	KindHighestCore Kind = 63
)

// ApplicationKind returns the n-th kind available to applications.
func ApplicationKind(n uint64) Kind {
	return KindHighestCore + 1 + Kind(n)
}

var coreKindNames = map[Kind]string{
	KindConnected:          "Connected",
	KindDisconnected:       "Disconnected",
	KindDeviceInfo:         "DeviceInfo",
	KindTouches:            "Touches",
	KindAcceleration:       "Acceleration",
	KindAccelerationEvents: "AccelerationEvents",
	KindDeviceOrientation:  "DeviceOrientation",
	KindTransform:          "Transform",
}

// IsCore returns true if kind is one of the kinds defined by the protocol.
func (k Kind) IsCore() bool {
	_, exists := coreKindNames[k]
	return exists
}

// IsApplication returns true if kind belongs to the application namespace.
func (k Kind) IsApplication() bool {
	return k > KindHighestCore
}

// IsLifecycle returns true for kinds produced by the hub only.
func (k Kind) IsLifecycle() bool {
	return k == KindConnected || k == KindDisconnected
}

// Valid returns true if kind may appear on the wire.
func (k Kind) Valid() bool {
	return k.IsCore() || k.IsApplication()
}

func (k Kind) String() string {
	if name, exists := coreKindNames[k]; exists {
		return name
	}
	if k.IsApplication() {
		return fmt.Sprintf("Application(%d)", uint64(k-KindHighestCore-1))
	}
	return fmt.Sprintf("Reserved(%d)", uint64(k))
}

// Reliability defines delivery guarantees of the message kind.
type Reliability int

// Reliabilities.
const (
	// Unreliable messages may be dropped under back-pressure and are not ordered
	// with respect to reliable ones.
	Unreliable Reliability = iota

	// Reliable messages are always delivered in order.
	Reliable
)

func (r Reliability) String() string {
	if r == Reliable {
		return "reliable"
	}
	return "unreliable"
}

// Frame is the header together with encoded payload, as relayed by the hub.
type Frame struct {
	Header  Header
	Content []byte
}

// Envelope is the decoded message.
type Envelope struct {
	Kind     Kind
	Sender   DeviceID
	Revision Revision
	Payload  any
}
