package wire

type (
	// DeviceID identifies a device connection. It is assigned by the hub.
	DeviceID uint64

	// Kind is the tag of the message payload.
	Kind uint64

	// Revision is the per-sender revision of the message used for deduplication.
	Revision uint64

	// Version is the schema version of the payload.
	Version uint64

	// HubID identifies running hub instance.
	HubID [16]byte
)

// Hello is sent by the device when connecting.
type Hello struct {
	Receives []Kind
}

// Welcome is the response of the hub to Hello.
type Welcome struct {
	HubID    HubID
	DeviceID DeviceID
}

// Header describes the following payload.
type Header struct {
	Kind     Kind
	Sender   DeviceID
	Revision Revision
	Version  Version
}

// Connected announces device which joined the hub.
type Connected struct {
	DeviceID DeviceID
}

// Disconnected announces device which left the hub.
type Disconnected struct {
	DeviceID DeviceID
}

// DeviceInfo describes the device.
type DeviceInfo struct {
	Name         string
	Model        string
	Platform     string
	ScreenWidth  uint64
	ScreenHeight uint64
}

// Vector2 is 2D vector.
type Vector2 struct {
	X float64
	Y float64
}

// Vector3 is 3D vector.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Quaternion represents rotation.
type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

// TouchPhase is the phase of the touch.
type TouchPhase uint64

// Touch phases.
const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchStationary
	TouchEnded
	TouchCanceled
)

// Touch is the state of single finger.
type Touch struct {
	FingerID       uint64
	Phase          TouchPhase
	Position       Vector2
	DeltaPosition  Vector2
	DeltaTime      float64
	TapCount       uint64
	Pressure       float64
	Radius         float64
	RadiusVariance float64
}

// Touches is the list of active touches.
type Touches struct {
	Touches []Touch
}

// Acceleration is acceleration accumulated over DeltaTime.
type Acceleration struct {
	Acceleration Vector3
	DeltaTime    float64
}

// AccelerationEvent is a single acceleration measurement reported by hardware.
type AccelerationEvent struct {
	Acceleration Vector3
	DeltaTime    float64
}

// AccelerationEvents carries acceleration events collected since the previous message.
type AccelerationEvents struct {
	Events       []AccelerationEvent
	Acceleration Vector3
	DeltaTime    float64
}

// Orientation is the physical orientation of the device.
type Orientation uint64

// Orientations.
const (
	OrientationUnknown Orientation = iota
	OrientationPortrait
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
	OrientationFaceUp
	OrientationFaceDown
)

// DeviceOrientation carries orientation transitions since the previous message.
type DeviceOrientation struct {
	Orientations []Orientation
}

// Transform is the pose of the tracked object.
type Transform struct {
	Position Vector3
	Rotation Quaternion
}
