package wire

import (
	"encoding/binary"
	"math"
	"reflect"
	"unsafe"

	"github.com/outofforest/proton"
	"github.com/outofforest/proton/helpers"
	"github.com/pkg/errors"
)

const (
	id5 uint64 = iota + 1
	id6
	id7
	id8
	id9
	id10
	id11
	id12
	id13
	id14
	id15
)

var _ proton.Marshaller = Marshaller{}

// NewMarshaller creates marshaller.
func NewMarshaller() Marshaller {
	return Marshaller{}
}

// Marshaller marshals and unmarshals messages.
type Marshaller struct {
}

// Messages returns list of the message types supported by marshaller.
func (m Marshaller) Messages() []any {
	return []any {
		Hello{},
		Welcome{},
		Header{},
		Connected{},
		Disconnected{},
		DeviceInfo{},
		Touches{},
		Acceleration{},
		AccelerationEvents{},
		DeviceOrientation{},
		Transform{},
	}
}

// ID returns ID of message type.
func (m Marshaller) ID(msg any) (uint64, error) {
	switch msg.(type) {
	case *Hello:
		return id5, nil
	case *Welcome:
		return id6, nil
	case *Header:
		return id7, nil
	case *Connected:
		return id8, nil
	case *Disconnected:
		return id9, nil
	case *DeviceInfo:
		return id10, nil
	case *Touches:
		return id11, nil
	case *Acceleration:
		return id12, nil
	case *AccelerationEvents:
		return id13, nil
	case *DeviceOrientation:
		return id14, nil
	case *Transform:
		return id15, nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Size computes the size of marshalled message.
func (m Marshaller) Size(msg any) (uint64, error) {
	switch msg2 := msg.(type) {
	case *Hello:
		return size5(msg2), nil
	case *Welcome:
		return size6(msg2), nil
	case *Header:
		return size7(msg2), nil
	case *Connected:
		return size8(msg2), nil
	case *Disconnected:
		return size9(msg2), nil
	case *DeviceInfo:
		return size10(msg2), nil
	case *Touches:
		return size11(msg2), nil
	case *Acceleration:
		return size12(msg2), nil
	case *AccelerationEvents:
		return size13(msg2), nil
	case *DeviceOrientation:
		return size14(msg2), nil
	case *Transform:
		return size15(msg2), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Marshal marshals message.
func (m Marshaller) Marshal(msg any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMarshal(&retErr)

	switch msg2 := msg.(type) {
	case *Hello:
		return id5, marshal5(msg2, buf), nil
	case *Welcome:
		return id6, marshal6(msg2, buf), nil
	case *Header:
		return id7, marshal7(msg2, buf), nil
	case *Connected:
		return id8, marshal8(msg2, buf), nil
	case *Disconnected:
		return id9, marshal9(msg2, buf), nil
	case *DeviceInfo:
		return id10, marshal10(msg2, buf), nil
	case *Touches:
		return id11, marshal11(msg2, buf), nil
	case *Acceleration:
		return id12, marshal12(msg2, buf), nil
	case *AccelerationEvents:
		return id13, marshal13(msg2, buf), nil
	case *DeviceOrientation:
		return id14, marshal14(msg2, buf), nil
	case *Transform:
		return id15, marshal15(msg2, buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Unmarshal unmarshals message.
func (m Marshaller) Unmarshal(id uint64, buf []byte) (retMsg any, retSize uint64, retErr error) {
	defer helpers.RecoverUnmarshal(&retErr)

	switch id {
	case id5:
		msg := &Hello{}
		return msg, unmarshal5(msg, buf), nil
	case id6:
		msg := &Welcome{}
		return msg, unmarshal6(msg, buf), nil
	case id7:
		msg := &Header{}
		return msg, unmarshal7(msg, buf), nil
	case id8:
		msg := &Connected{}
		return msg, unmarshal8(msg, buf), nil
	case id9:
		msg := &Disconnected{}
		return msg, unmarshal9(msg, buf), nil
	case id10:
		msg := &DeviceInfo{}
		return msg, unmarshal10(msg, buf), nil
	case id11:
		msg := &Touches{}
		return msg, unmarshal11(msg, buf), nil
	case id12:
		msg := &Acceleration{}
		return msg, unmarshal12(msg, buf), nil
	case id13:
		msg := &AccelerationEvents{}
		return msg, unmarshal13(msg, buf), nil
	case id14:
		msg := &DeviceOrientation{}
		return msg, unmarshal14(msg, buf), nil
	case id15:
		msg := &Transform{}
		return msg, unmarshal15(msg, buf), nil
	default:
		return nil, 0, errors.Errorf("unknown ID %d", id)
	}
}

// MakePatch creates a patch.
func (m Marshaller) MakePatch(msgDst, msgSrc any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMakePatch(&retErr)

	switch msg2 := msgDst.(type) {
	case *Hello:
		return id5, makePatch5(msg2, msgSrc.(*Hello), buf), nil
	case *Welcome:
		return id6, makePatch6(msg2, msgSrc.(*Welcome), buf), nil
	case *Header:
		return id7, makePatch7(msg2, msgSrc.(*Header), buf), nil
	case *Connected:
		return id8, makePatch8(msg2, msgSrc.(*Connected), buf), nil
	case *Disconnected:
		return id9, makePatch9(msg2, msgSrc.(*Disconnected), buf), nil
	case *DeviceInfo:
		return id10, makePatch10(msg2, msgSrc.(*DeviceInfo), buf), nil
	case *Touches:
		return id11, makePatch11(msg2, msgSrc.(*Touches), buf), nil
	case *Acceleration:
		return id12, makePatch12(msg2, msgSrc.(*Acceleration), buf), nil
	case *AccelerationEvents:
		return id13, makePatch13(msg2, msgSrc.(*AccelerationEvents), buf), nil
	case *DeviceOrientation:
		return id14, makePatch14(msg2, msgSrc.(*DeviceOrientation), buf), nil
	case *Transform:
		return id15, makePatch15(msg2, msgSrc.(*Transform), buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msgDst)
	}
}

// ApplyPatch applies patch.
func (m Marshaller) ApplyPatch(msg any, buf []byte) (retSize uint64, retErr error) {
	defer helpers.RecoverApplyPatch(&retErr)

	switch msg2 := msg.(type) {
	case *Hello:
		return applyPatch5(msg2, buf), nil
	case *Welcome:
		return applyPatch6(msg2, buf), nil
	case *Header:
		return applyPatch7(msg2, buf), nil
	case *Connected:
		return applyPatch8(msg2, buf), nil
	case *Disconnected:
		return applyPatch9(msg2, buf), nil
	case *DeviceInfo:
		return applyPatch10(msg2, buf), nil
	case *Touches:
		return applyPatch11(msg2, buf), nil
	case *Acceleration:
		return applyPatch12(msg2, buf), nil
	case *AccelerationEvents:
		return applyPatch13(msg2, buf), nil
	case *DeviceOrientation:
		return applyPatch14(msg2, buf), nil
	case *Transform:
		return applyPatch15(msg2, buf), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

func verifyLength(l uint64, b []byte, o uint64) {
	if l > uint64(len(b))-o {
		panic(errors.Errorf("length %d exceeds remaining %d bytes", l, uint64(len(b))-o))
	}
}

func size0(m *Vector2) uint64 {
	var n uint64 = 16
	return n
}

func marshal0(m *Vector2, b []byte) uint64 {
	var o uint64
	{
		// X

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.X))
		o += 8
	}
	{
		// Y

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Y))
		o += 8
	}

	return o
}

func unmarshal0(m *Vector2, b []byte) uint64 {
	var o uint64
	{
		// X

		m.X = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Y

		m.Y = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func size1(m *Vector3) uint64 {
	var n uint64 = 24
	return n
}

func marshal1(m *Vector3, b []byte) uint64 {
	var o uint64
	{
		// X

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.X))
		o += 8
	}
	{
		// Y

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Y))
		o += 8
	}
	{
		// Z

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Z))
		o += 8
	}

	return o
}

func unmarshal1(m *Vector3, b []byte) uint64 {
	var o uint64
	{
		// X

		m.X = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Y

		m.Y = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Z

		m.Z = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func size2(m *Quaternion) uint64 {
	var n uint64 = 32
	return n
}

func marshal2(m *Quaternion, b []byte) uint64 {
	var o uint64
	{
		// X

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.X))
		o += 8
	}
	{
		// Y

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Y))
		o += 8
	}
	{
		// Z

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Z))
		o += 8
	}
	{
		// W

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.W))
		o += 8
	}

	return o
}

func unmarshal2(m *Quaternion, b []byte) uint64 {
	var o uint64
	{
		// X

		m.X = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Y

		m.Y = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Z

		m.Z = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// W

		m.W = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func size3(m *Touch) uint64 {
	var n uint64 = 35
	{
		// FingerID

		helpers.UInt64Size(m.FingerID, &n)
	}
	{
		// Phase

		helpers.UInt64Size(m.Phase, &n)
	}
	{
		// Position

		n += size0(&m.Position)
	}
	{
		// DeltaPosition

		n += size0(&m.DeltaPosition)
	}
	{
		// TapCount

		helpers.UInt64Size(m.TapCount, &n)
	}
	return n
}

func marshal3(m *Touch, b []byte) uint64 {
	var o uint64
	{
		// FingerID

		helpers.UInt64Marshal(m.FingerID, b, &o)
	}
	{
		// Phase

		helpers.UInt64Marshal(m.Phase, b, &o)
	}
	{
		// Position

		o += marshal0(&m.Position, b[o:])
	}
	{
		// DeltaPosition

		o += marshal0(&m.DeltaPosition, b[o:])
	}
	{
		// DeltaTime

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
		o += 8
	}
	{
		// TapCount

		helpers.UInt64Marshal(m.TapCount, b, &o)
	}
	{
		// Pressure

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Pressure))
		o += 8
	}
	{
		// Radius

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.Radius))
		o += 8
	}
	{
		// RadiusVariance

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.RadiusVariance))
		o += 8
	}

	return o
}

func unmarshal3(m *Touch, b []byte) uint64 {
	var o uint64
	{
		// FingerID

		helpers.UInt64Unmarshal(&m.FingerID, b, &o)
	}
	{
		// Phase

		helpers.UInt64Unmarshal(&m.Phase, b, &o)
	}
	{
		// Position

		o += unmarshal0(&m.Position, b[o:])
	}
	{
		// DeltaPosition

		o += unmarshal0(&m.DeltaPosition, b[o:])
	}
	{
		// DeltaTime

		m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// TapCount

		helpers.UInt64Unmarshal(&m.TapCount, b, &o)
	}
	{
		// Pressure

		m.Pressure = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// Radius

		m.Radius = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}
	{
		// RadiusVariance

		m.RadiusVariance = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func size4(m *AccelerationEvent) uint64 {
	var n uint64 = 8
	{
		// Acceleration

		n += size1(&m.Acceleration)
	}
	return n
}

func marshal4(m *AccelerationEvent, b []byte) uint64 {
	var o uint64
	{
		// Acceleration

		o += marshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
		o += 8
	}

	return o
}

func unmarshal4(m *AccelerationEvent, b []byte) uint64 {
	var o uint64
	{
		// Acceleration

		o += unmarshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func size5(m *Hello) uint64 {
	var n uint64 = 1
	{
		// Receives

		l := uint64(len(m.Receives))
		helpers.UInt64Size(l, &n)
		n += l
		for _, sv1 := range m.Receives {
			helpers.UInt64Size(sv1, &n)
		}
	}
	return n
}

func marshal5(m *Hello, b []byte) uint64 {
	var o uint64
	{
		// Receives

		helpers.UInt64Marshal(uint64(len(m.Receives)), b, &o)
		for _, sv1 := range m.Receives {
			helpers.UInt64Marshal(sv1, b, &o)
		}
	}

	return o
}

func unmarshal5(m *Hello, b []byte) uint64 {
	var o uint64
	{
		// Receives

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			verifyLength(l, b, o)
			m.Receives = make([]Kind, l)
			for i1 := range l {
				helpers.UInt64Unmarshal(&m.Receives[i1], b, &o)
			}
		}
	}

	return o
}

func makePatch5(m, mSrc *Hello, b []byte) uint64 {
	var o uint64 = 1
	{
		// Receives

		if reflect.DeepEqual(m.Receives, mSrc.Receives) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(uint64(len(m.Receives)), b, &o)
			for _, sv1 := range m.Receives {
				helpers.UInt64Marshal(sv1, b, &o)
			}
		}
	}

	return o
}

func applyPatch5(m *Hello, b []byte) uint64 {
	var o uint64 = 1
	{
		// Receives

		if b[0]&0x01 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				verifyLength(l, b, o)
				m.Receives = make([]Kind, l)
				for i1 := range l {
					helpers.UInt64Unmarshal(&m.Receives[i1], b, &o)
				}
			}
		}
	}

	return o
}

func size6(m *Welcome) uint64 {
	var n uint64 = 17
	{
		// DeviceID

		helpers.UInt64Size(m.DeviceID, &n)
	}
	return n
}

func marshal6(m *Welcome, b []byte) uint64 {
	var o uint64
	{
		// HubID

		copy(b[o:o+16], unsafe.Slice(&m.HubID[0], 16))
		o += 16
	}
	{
		// DeviceID

		helpers.UInt64Marshal(m.DeviceID, b, &o)
	}

	return o
}

func unmarshal6(m *Welcome, b []byte) uint64 {
	var o uint64
	{
		// HubID

		copy(unsafe.Slice(&m.HubID[0], 16), b[o:o+16])
		o += 16
	}
	{
		// DeviceID

		helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
	}

	return o
}

func makePatch6(m, mSrc *Welcome, b []byte) uint64 {
	var o uint64 = 1
	{
		// HubID

		if reflect.DeepEqual(m.HubID, mSrc.HubID) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			copy(b[o:o+16], unsafe.Slice(&m.HubID[0], 16))
			o += 16
		}
	}
	{
		// DeviceID

		if reflect.DeepEqual(m.DeviceID, mSrc.DeviceID) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			helpers.UInt64Marshal(m.DeviceID, b, &o)
		}
	}

	return o
}

func applyPatch6(m *Welcome, b []byte) uint64 {
	var o uint64 = 1
	{
		// HubID

		if b[0]&0x01 != 0 {
			copy(unsafe.Slice(&m.HubID[0], 16), b[o:o+16])
			o += 16
		}
	}
	{
		// DeviceID

		if b[0]&0x02 != 0 {
			helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
		}
	}

	return o
}

func size7(m *Header) uint64 {
	var n uint64 = 4
	{
		// Kind

		helpers.UInt64Size(m.Kind, &n)
	}
	{
		// Sender

		helpers.UInt64Size(m.Sender, &n)
	}
	{
		// Revision

		helpers.UInt64Size(m.Revision, &n)
	}
	{
		// Version

		helpers.UInt64Size(m.Version, &n)
	}
	return n
}

func marshal7(m *Header, b []byte) uint64 {
	var o uint64
	{
		// Kind

		helpers.UInt64Marshal(m.Kind, b, &o)
	}
	{
		// Sender

		helpers.UInt64Marshal(m.Sender, b, &o)
	}
	{
		// Revision

		helpers.UInt64Marshal(m.Revision, b, &o)
	}
	{
		// Version

		helpers.UInt64Marshal(m.Version, b, &o)
	}

	return o
}

func unmarshal7(m *Header, b []byte) uint64 {
	var o uint64
	{
		// Kind

		helpers.UInt64Unmarshal(&m.Kind, b, &o)
	}
	{
		// Sender

		helpers.UInt64Unmarshal(&m.Sender, b, &o)
	}
	{
		// Revision

		helpers.UInt64Unmarshal(&m.Revision, b, &o)
	}
	{
		// Version

		helpers.UInt64Unmarshal(&m.Version, b, &o)
	}

	return o
}

func makePatch7(m, mSrc *Header, b []byte) uint64 {
	var o uint64 = 1
	{
		// Kind

		if reflect.DeepEqual(m.Kind, mSrc.Kind) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(m.Kind, b, &o)
		}
	}
	{
		// Sender

		if reflect.DeepEqual(m.Sender, mSrc.Sender) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			helpers.UInt64Marshal(m.Sender, b, &o)
		}
	}
	{
		// Revision

		if reflect.DeepEqual(m.Revision, mSrc.Revision) {
			b[0] &= 0xFB
		} else {
			b[0] |= 0x04
			helpers.UInt64Marshal(m.Revision, b, &o)
		}
	}
	{
		// Version

		if reflect.DeepEqual(m.Version, mSrc.Version) {
			b[0] &= 0xF7
		} else {
			b[0] |= 0x08
			helpers.UInt64Marshal(m.Version, b, &o)
		}
	}

	return o
}

func applyPatch7(m *Header, b []byte) uint64 {
	var o uint64 = 1
	{
		// Kind

		if b[0]&0x01 != 0 {
			helpers.UInt64Unmarshal(&m.Kind, b, &o)
		}
	}
	{
		// Sender

		if b[0]&0x02 != 0 {
			helpers.UInt64Unmarshal(&m.Sender, b, &o)
		}
	}
	{
		// Revision

		if b[0]&0x04 != 0 {
			helpers.UInt64Unmarshal(&m.Revision, b, &o)
		}
	}
	{
		// Version

		if b[0]&0x08 != 0 {
			helpers.UInt64Unmarshal(&m.Version, b, &o)
		}
	}

	return o
}

func size8(m *Connected) uint64 {
	var n uint64 = 1
	{
		// DeviceID

		helpers.UInt64Size(m.DeviceID, &n)
	}
	return n
}

func marshal8(m *Connected, b []byte) uint64 {
	var o uint64
	{
		// DeviceID

		helpers.UInt64Marshal(m.DeviceID, b, &o)
	}

	return o
}

func unmarshal8(m *Connected, b []byte) uint64 {
	var o uint64
	{
		// DeviceID

		helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
	}

	return o
}

func makePatch8(m, mSrc *Connected, b []byte) uint64 {
	var o uint64 = 1
	{
		// DeviceID

		if reflect.DeepEqual(m.DeviceID, mSrc.DeviceID) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(m.DeviceID, b, &o)
		}
	}

	return o
}

func applyPatch8(m *Connected, b []byte) uint64 {
	var o uint64 = 1
	{
		// DeviceID

		if b[0]&0x01 != 0 {
			helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
		}
	}

	return o
}

func size9(m *Disconnected) uint64 {
	var n uint64 = 1
	{
		// DeviceID

		helpers.UInt64Size(m.DeviceID, &n)
	}
	return n
}

func marshal9(m *Disconnected, b []byte) uint64 {
	var o uint64
	{
		// DeviceID

		helpers.UInt64Marshal(m.DeviceID, b, &o)
	}

	return o
}

func unmarshal9(m *Disconnected, b []byte) uint64 {
	var o uint64
	{
		// DeviceID

		helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
	}

	return o
}

func makePatch9(m, mSrc *Disconnected, b []byte) uint64 {
	var o uint64 = 1
	{
		// DeviceID

		if reflect.DeepEqual(m.DeviceID, mSrc.DeviceID) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(m.DeviceID, b, &o)
		}
	}

	return o
}

func applyPatch9(m *Disconnected, b []byte) uint64 {
	var o uint64 = 1
	{
		// DeviceID

		if b[0]&0x01 != 0 {
			helpers.UInt64Unmarshal(&m.DeviceID, b, &o)
		}
	}

	return o
}

func size10(m *DeviceInfo) uint64 {
	var n uint64 = 5
	{
		// Name

		{
			l := uint64(len(m.Name))
			helpers.UInt64Size(l, &n)
			n += l
		}
	}
	{
		// Model

		{
			l := uint64(len(m.Model))
			helpers.UInt64Size(l, &n)
			n += l
		}
	}
	{
		// Platform

		{
			l := uint64(len(m.Platform))
			helpers.UInt64Size(l, &n)
			n += l
		}
	}
	{
		// ScreenWidth

		helpers.UInt64Size(m.ScreenWidth, &n)
	}
	{
		// ScreenHeight

		helpers.UInt64Size(m.ScreenHeight, &n)
	}
	return n
}

func marshal10(m *DeviceInfo, b []byte) uint64 {
	var o uint64
	{
		// Name

		{
			l := uint64(len(m.Name))
			helpers.UInt64Marshal(l, b, &o)
			copy(b[o:o+l], m.Name)
			o += l
		}
	}
	{
		// Model

		{
			l := uint64(len(m.Model))
			helpers.UInt64Marshal(l, b, &o)
			copy(b[o:o+l], m.Model)
			o += l
		}
	}
	{
		// Platform

		{
			l := uint64(len(m.Platform))
			helpers.UInt64Marshal(l, b, &o)
			copy(b[o:o+l], m.Platform)
			o += l
		}
	}
	{
		// ScreenWidth

		helpers.UInt64Marshal(m.ScreenWidth, b, &o)
	}
	{
		// ScreenHeight

		helpers.UInt64Marshal(m.ScreenHeight, b, &o)
	}

	return o
}

func unmarshal10(m *DeviceInfo, b []byte) uint64 {
	var o uint64
	{
		// Name

		{
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Name = string(b[o:o+l])
				o += l
			}
		}
	}
	{
		// Model

		{
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Model = string(b[o:o+l])
				o += l
			}
		}
	}
	{
		// Platform

		{
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Platform = string(b[o:o+l])
				o += l
			}
		}
	}
	{
		// ScreenWidth

		helpers.UInt64Unmarshal(&m.ScreenWidth, b, &o)
	}
	{
		// ScreenHeight

		helpers.UInt64Unmarshal(&m.ScreenHeight, b, &o)
	}

	return o
}

func makePatch10(m, mSrc *DeviceInfo, b []byte) uint64 {
	var o uint64 = 1
	{
		// Name

		if reflect.DeepEqual(m.Name, mSrc.Name) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			{
				l := uint64(len(m.Name))
				helpers.UInt64Marshal(l, b, &o)
				copy(b[o:o+l], m.Name)
				o += l
			}
		}
	}
	{
		// Model

		if reflect.DeepEqual(m.Model, mSrc.Model) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			{
				l := uint64(len(m.Model))
				helpers.UInt64Marshal(l, b, &o)
				copy(b[o:o+l], m.Model)
				o += l
			}
		}
	}
	{
		// Platform

		if reflect.DeepEqual(m.Platform, mSrc.Platform) {
			b[0] &= 0xFB
		} else {
			b[0] |= 0x04
			{
				l := uint64(len(m.Platform))
				helpers.UInt64Marshal(l, b, &o)
				copy(b[o:o+l], m.Platform)
				o += l
			}
		}
	}
	{
		// ScreenWidth

		if reflect.DeepEqual(m.ScreenWidth, mSrc.ScreenWidth) {
			b[0] &= 0xF7
		} else {
			b[0] |= 0x08
			helpers.UInt64Marshal(m.ScreenWidth, b, &o)
		}
	}
	{
		// ScreenHeight

		if reflect.DeepEqual(m.ScreenHeight, mSrc.ScreenHeight) {
			b[0] &= 0xEF
		} else {
			b[0] |= 0x10
			helpers.UInt64Marshal(m.ScreenHeight, b, &o)
		}
	}

	return o
}

func applyPatch10(m *DeviceInfo, b []byte) uint64 {
	var o uint64 = 1
	{
		// Name

		if b[0]&0x01 != 0 {
			{
				var l uint64
				helpers.UInt64Unmarshal(&l, b, &o)
				if l > 0 {
					m.Name = string(b[o:o+l])
					o += l
				}
			}
		}
	}
	{
		// Model

		if b[0]&0x02 != 0 {
			{
				var l uint64
				helpers.UInt64Unmarshal(&l, b, &o)
				if l > 0 {
					m.Model = string(b[o:o+l])
					o += l
				}
			}
		}
	}
	{
		// Platform

		if b[0]&0x04 != 0 {
			{
				var l uint64
				helpers.UInt64Unmarshal(&l, b, &o)
				if l > 0 {
					m.Platform = string(b[o:o+l])
					o += l
				}
			}
		}
	}
	{
		// ScreenWidth

		if b[0]&0x08 != 0 {
			helpers.UInt64Unmarshal(&m.ScreenWidth, b, &o)
		}
	}
	{
		// ScreenHeight

		if b[0]&0x10 != 0 {
			helpers.UInt64Unmarshal(&m.ScreenHeight, b, &o)
		}
	}

	return o
}

func size11(m *Touches) uint64 {
	var n uint64 = 1
	{
		// Touches

		l := uint64(len(m.Touches))
		helpers.UInt64Size(l, &n)
		for _, sv1 := range m.Touches {
			n += size3(&sv1)
		}
	}
	return n
}

func marshal11(m *Touches, b []byte) uint64 {
	var o uint64
	{
		// Touches

		helpers.UInt64Marshal(uint64(len(m.Touches)), b, &o)
		for _, sv1 := range m.Touches {
			o += marshal3(&sv1, b[o:])
		}
	}

	return o
}

func unmarshal11(m *Touches, b []byte) uint64 {
	var o uint64
	{
		// Touches

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			verifyLength(l, b, o)
			m.Touches = make([]Touch, l)
			for i1 := range l {
				o += unmarshal3(&m.Touches[i1], b[o:])
			}
		}
	}

	return o
}

func makePatch11(m, mSrc *Touches, b []byte) uint64 {
	var o uint64 = 1
	{
		// Touches

		if reflect.DeepEqual(m.Touches, mSrc.Touches) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(uint64(len(m.Touches)), b, &o)
			for _, sv1 := range m.Touches {
				o += marshal3(&sv1, b[o:])
			}
		}
	}

	return o
}

func applyPatch11(m *Touches, b []byte) uint64 {
	var o uint64 = 1
	{
		// Touches

		if b[0]&0x01 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				verifyLength(l, b, o)
				m.Touches = make([]Touch, l)
				for i1 := range l {
					o += unmarshal3(&m.Touches[i1], b[o:])
				}
			}
		}
	}

	return o
}

func size12(m *Acceleration) uint64 {
	var n uint64 = 8
	{
		// Acceleration

		n += size1(&m.Acceleration)
	}
	return n
}

func marshal12(m *Acceleration, b []byte) uint64 {
	var o uint64
	{
		// Acceleration

		o += marshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
		o += 8
	}

	return o
}

func unmarshal12(m *Acceleration, b []byte) uint64 {
	var o uint64
	{
		// Acceleration

		o += unmarshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func makePatch12(m, mSrc *Acceleration, b []byte) uint64 {
	var o uint64 = 1
	{
		// Acceleration

		if reflect.DeepEqual(m.Acceleration, mSrc.Acceleration) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			o += marshal1(&m.Acceleration, b[o:])
		}
	}
	{
		// DeltaTime

		if reflect.DeepEqual(m.DeltaTime, mSrc.DeltaTime) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
			o += 8
		}
	}

	return o
}

func applyPatch12(m *Acceleration, b []byte) uint64 {
	var o uint64 = 1
	{
		// Acceleration

		if b[0]&0x01 != 0 {
			o += unmarshal1(&m.Acceleration, b[o:])
		}
	}
	{
		// DeltaTime

		if b[0]&0x02 != 0 {
			m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
			o += 8
		}
	}

	return o
}

func size13(m *AccelerationEvents) uint64 {
	var n uint64 = 9
	{
		// Events

		l := uint64(len(m.Events))
		helpers.UInt64Size(l, &n)
		for _, sv1 := range m.Events {
			n += size4(&sv1)
		}
	}
	{
		// Acceleration

		n += size1(&m.Acceleration)
	}
	return n
}

func marshal13(m *AccelerationEvents, b []byte) uint64 {
	var o uint64
	{
		// Events

		helpers.UInt64Marshal(uint64(len(m.Events)), b, &o)
		for _, sv1 := range m.Events {
			o += marshal4(&sv1, b[o:])
		}
	}
	{
		// Acceleration

		o += marshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
		o += 8
	}

	return o
}

func unmarshal13(m *AccelerationEvents, b []byte) uint64 {
	var o uint64
	{
		// Events

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			verifyLength(l, b, o)
			m.Events = make([]AccelerationEvent, l)
			for i1 := range l {
				o += unmarshal4(&m.Events[i1], b[o:])
			}
		}
	}
	{
		// Acceleration

		o += unmarshal1(&m.Acceleration, b[o:])
	}
	{
		// DeltaTime

		m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
		o += 8
	}

	return o
}

func makePatch13(m, mSrc *AccelerationEvents, b []byte) uint64 {
	var o uint64 = 1
	{
		// Events

		if reflect.DeepEqual(m.Events, mSrc.Events) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(uint64(len(m.Events)), b, &o)
			for _, sv1 := range m.Events {
				o += marshal4(&sv1, b[o:])
			}
		}
	}
	{
		// Acceleration

		if reflect.DeepEqual(m.Acceleration, mSrc.Acceleration) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			o += marshal1(&m.Acceleration, b[o:])
		}
	}
	{
		// DeltaTime

		if reflect.DeepEqual(m.DeltaTime, mSrc.DeltaTime) {
			b[0] &= 0xFB
		} else {
			b[0] |= 0x04
			binary.LittleEndian.PutUint64(b[o:o+8], math.Float64bits(m.DeltaTime))
			o += 8
		}
	}

	return o
}

func applyPatch13(m *AccelerationEvents, b []byte) uint64 {
	var o uint64 = 1
	{
		// Events

		if b[0]&0x01 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				verifyLength(l, b, o)
				m.Events = make([]AccelerationEvent, l)
				for i1 := range l {
					o += unmarshal4(&m.Events[i1], b[o:])
				}
			}
		}
	}
	{
		// Acceleration

		if b[0]&0x02 != 0 {
			o += unmarshal1(&m.Acceleration, b[o:])
		}
	}
	{
		// DeltaTime

		if b[0]&0x04 != 0 {
			m.DeltaTime = math.Float64frombits(binary.LittleEndian.Uint64(b[o : o+8]))
			o += 8
		}
	}

	return o
}

func size14(m *DeviceOrientation) uint64 {
	var n uint64 = 1
	{
		// Orientations

		l := uint64(len(m.Orientations))
		helpers.UInt64Size(l, &n)
		n += l
		for _, sv1 := range m.Orientations {
			helpers.UInt64Size(sv1, &n)
		}
	}
	return n
}

func marshal14(m *DeviceOrientation, b []byte) uint64 {
	var o uint64
	{
		// Orientations

		helpers.UInt64Marshal(uint64(len(m.Orientations)), b, &o)
		for _, sv1 := range m.Orientations {
			helpers.UInt64Marshal(sv1, b, &o)
		}
	}

	return o
}

func unmarshal14(m *DeviceOrientation, b []byte) uint64 {
	var o uint64
	{
		// Orientations

		var l uint64
		helpers.UInt64Unmarshal(&l, b, &o)
		if l > 0 {
			verifyLength(l, b, o)
			m.Orientations = make([]Orientation, l)
			for i1 := range l {
				helpers.UInt64Unmarshal(&m.Orientations[i1], b, &o)
			}
		}
	}

	return o
}

func makePatch14(m, mSrc *DeviceOrientation, b []byte) uint64 {
	var o uint64 = 1
	{
		// Orientations

		if reflect.DeepEqual(m.Orientations, mSrc.Orientations) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(uint64(len(m.Orientations)), b, &o)
			for _, sv1 := range m.Orientations {
				helpers.UInt64Marshal(sv1, b, &o)
			}
		}
	}

	return o
}

func applyPatch14(m *DeviceOrientation, b []byte) uint64 {
	var o uint64 = 1
	{
		// Orientations

		if b[0]&0x01 != 0 {
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				verifyLength(l, b, o)
				m.Orientations = make([]Orientation, l)
				for i1 := range l {
					helpers.UInt64Unmarshal(&m.Orientations[i1], b, &o)
				}
			}
		}
	}

	return o
}

func size15(m *Transform) uint64 {
	var n uint64 = 0
	{
		// Position

		n += size1(&m.Position)
	}
	{
		// Rotation

		n += size2(&m.Rotation)
	}
	return n
}

func marshal15(m *Transform, b []byte) uint64 {
	var o uint64
	{
		// Position

		o += marshal1(&m.Position, b[o:])
	}
	{
		// Rotation

		o += marshal2(&m.Rotation, b[o:])
	}

	return o
}

func unmarshal15(m *Transform, b []byte) uint64 {
	var o uint64
	{
		// Position

		o += unmarshal1(&m.Position, b[o:])
	}
	{
		// Rotation

		o += unmarshal2(&m.Rotation, b[o:])
	}

	return o
}

func makePatch15(m, mSrc *Transform, b []byte) uint64 {
	var o uint64 = 1
	{
		// Position

		if reflect.DeepEqual(m.Position, mSrc.Position) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			o += marshal1(&m.Position, b[o:])
		}
	}
	{
		// Rotation

		if reflect.DeepEqual(m.Rotation, mSrc.Rotation) {
			b[0] &= 0xFD
		} else {
			b[0] |= 0x02
			o += marshal2(&m.Rotation, b[o:])
		}
	}

	return o
}

func applyPatch15(m *Transform, b []byte) uint64 {
	var o uint64 = 1
	{
		// Position

		if b[0]&0x01 != 0 {
			o += unmarshal1(&m.Position, b[o:])
		}
	}
	{
		// Rotation

		if b[0]&0x02 != 0 {
			o += unmarshal2(&m.Rotation, b[o:])
		}
	}

	return o
}
