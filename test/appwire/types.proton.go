package appwire

import (
	"reflect"

	"github.com/outofforest/proton"
	"github.com/outofforest/proton/helpers"
	"github.com/pkg/errors"
)

const (
	id1 uint64 = iota + 1
	id0
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
	return []any{
		Chat{},
		Score{},
	}
}

// ID returns ID of message type.
func (m Marshaller) ID(msg any) (uint64, error) {
	switch msg.(type) {
	case *Chat:
		return id1, nil
	case *Score:
		return id0, nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Size computes the size of marshalled message.
func (m Marshaller) Size(msg any) (uint64, error) {
	switch msg2 := msg.(type) {
	case *Chat:
		return size1(msg2), nil
	case *Score:
		return size0(msg2), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Marshal marshals message.
func (m Marshaller) Marshal(msg any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMarshal(&retErr)

	switch msg2 := msg.(type) {
	case *Chat:
		return id1, marshal1(msg2, buf), nil
	case *Score:
		return id0, marshal0(msg2, buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msg)
	}
}

// Unmarshal unmarshals message.
func (m Marshaller) Unmarshal(id uint64, buf []byte) (retMsg any, retSize uint64, retErr error) {
	defer helpers.RecoverUnmarshal(&retErr)

	switch id {
	case id1:
		msg := &Chat{}
		return msg, unmarshal1(msg, buf), nil
	case id0:
		msg := &Score{}
		return msg, unmarshal0(msg, buf), nil
	default:
		return nil, 0, errors.Errorf("unknown ID %d", id)
	}
}

// MakePatch creates a patch.
func (m Marshaller) MakePatch(msgDst, msgSrc any, buf []byte) (retID, retSize uint64, retErr error) {
	defer helpers.RecoverMakePatch(&retErr)

	switch msg2 := msgDst.(type) {
	case *Chat:
		return id1, makePatch1(msg2, msgSrc.(*Chat), buf), nil
	case *Score:
		return id0, makePatch0(msg2, msgSrc.(*Score), buf), nil
	default:
		return 0, 0, errors.Errorf("unknown message type %T", msgDst)
	}
}

// ApplyPatch applies patch.
func (m Marshaller) ApplyPatch(msg any, buf []byte) (retSize uint64, retErr error) {
	defer helpers.RecoverUnmarshal(&retErr)

	switch msg2 := msg.(type) {
	case *Chat:
		return applyPatch1(msg2, buf), nil
	case *Score:
		return applyPatch0(msg2, buf), nil
	default:
		return 0, errors.Errorf("unknown message type %T", msg)
	}
}

func size0(m *Score) uint64 {
	var n uint64 = 1
	{
		// Points

		helpers.UInt64Size(m.Points, &n)
	}
	return n
}

func marshal0(m *Score, b []byte) uint64 {
	var o uint64
	{
		// Points

		helpers.UInt64Marshal(m.Points, b, &o)
	}

	return o
}

func unmarshal0(m *Score, b []byte) uint64 {
	var o uint64
	{
		// Points

		helpers.UInt64Unmarshal(&m.Points, b, &o)
	}

	return o
}

func makePatch0(m, mSrc *Score, b []byte) uint64 {
	var o uint64 = 1
	{
		// Points

		if reflect.DeepEqual(m.Points, mSrc.Points) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			helpers.UInt64Marshal(m.Points, b, &o)
		}
	}

	return o
}

func applyPatch0(m *Score, b []byte) uint64 {
	var o uint64 = 1
	{
		// Points

		if b[0]&0x01 != 0 {
			helpers.UInt64Unmarshal(&m.Points, b, &o)
		}
	}

	return o
}

func size1(m *Chat) uint64 {
	var n uint64 = 1
	{
		// Text

		{
			l := uint64(len(m.Text))
			helpers.UInt64Size(l, &n)
			n += l
		}
	}
	return n
}

func marshal1(m *Chat, b []byte) uint64 {
	var o uint64
	{
		// Text

		{
			l := uint64(len(m.Text))
			helpers.UInt64Marshal(l, b, &o)
			copy(b[o:o+l], m.Text)
			o += l
		}
	}

	return o
}

func unmarshal1(m *Chat, b []byte) uint64 {
	var o uint64
	{
		// Text

		{
			var l uint64
			helpers.UInt64Unmarshal(&l, b, &o)
			if l > 0 {
				m.Text = string(b[o:o+l])
				o += l
			}
		}
	}

	return o
}

func makePatch1(m, mSrc *Chat, b []byte) uint64 {
	var o uint64 = 1
	{
		// Text

		if reflect.DeepEqual(m.Text, mSrc.Text) {
			b[0] &= 0xFE
		} else {
			b[0] |= 0x01
			{
				l := uint64(len(m.Text))
				helpers.UInt64Marshal(l, b, &o)
				copy(b[o:o+l], m.Text)
				o += l
			}
		}
	}

	return o
}

func applyPatch1(m *Chat, b []byte) uint64 {
	var o uint64 = 1
	{
		// Text

		if b[0]&0x01 != 0 {
			{
				var l uint64
				helpers.UInt64Unmarshal(&l, b, &o)
				if l > 0 {
					m.Text = string(b[o:o+l])
					o += l
				}
			}
		}
	}

	return o
}
