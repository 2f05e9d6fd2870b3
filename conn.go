package pulse

import (
	"github.com/outofforest/proton"
	"github.com/outofforest/resonance"
)

// conn is the connection carrying handshake and frames, regardless of the transport.
type conn interface {
	SendMessage(msg any) error
	ReceiveMessage() (any, error)
	SendContent(content []byte) error
	ReceiveContent() ([]byte, error)
	Close()
}

type resonanceConn struct {
	c *resonance.Connection
	m proton.Marshaller
}

func (rc resonanceConn) SendMessage(msg any) error {
	return rc.c.SendProton(msg, rc.m)
}

func (rc resonanceConn) ReceiveMessage() (any, error) {
	return rc.c.ReceiveProton(rc.m)
}

func (rc resonanceConn) SendContent(content []byte) error {
	return rc.c.SendRawBytes(content)
}

func (rc resonanceConn) ReceiveContent() ([]byte, error) {
	return rc.c.ReceiveRawBytes()
}

func (rc resonanceConn) Close() {
	rc.c.Close()
}
