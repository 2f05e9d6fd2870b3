package pulse

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/pulse/hub"
	"github.com/outofforest/pulse/registry"
	"github.com/outofforest/pulse/wire"
	"github.com/outofforest/resonance"
)

// DefaultMaxMessageSize is used when max message size is not configured.
const DefaultMaxMessageSize = 64 * 1024

// KindConfig defines application kind relayed by the hub.
type KindConfig struct {
	Kind     wire.Kind `yaml:"kind"`
	Reliable bool      `yaml:"reliable"`
	Backfill bool      `yaml:"backfill"`
}

// ServerConfig defines server configuration.
type ServerConfig struct {
	MaxMessageSize uint64       `yaml:"maxMessageSize"`
	QueueLimit     int          `yaml:"queueLimit"`
	Kinds          []KindConfig `yaml:"kinds"`
}

// Server accepts device connections and relays frames between them.
type Server struct {
	config   ServerConfig
	hubID    wire.HubID
	registry *registry.Registry
	hub      *hub.Hub
	lastID   atomic.Uint64
}

// NewServer creates server.
func NewServer(config ServerConfig) (*Server, error) {
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}

	catalog := wire.NewCatalog()
	for _, k := range config.Kinds {
		reliability := wire.Unreliable
		if k.Reliable {
			reliability = wire.Reliable
		}
		if err := catalog.Define(wire.Definition{
			Kind:        k.Kind,
			Reliability: reliability,
			Backfill:    k.Backfill,
		}); err != nil {
			return nil, err
		}
	}

	r := registry.New()
	h, err := hub.New(hub.Config{
		Registry:           r,
		Catalog:            catalog,
		QueueLimit:         config.QueueLimit,
		RejectUnknownKinds: len(config.Kinds) > 0,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   config,
		hubID:    newHubID(),
		registry: r,
		hub:      h,
	}, nil
}

// RunServer runs server accepting connections on the listener.
func RunServer(ctx context.Context, ls net.Listener, config ServerConfig) error {
	s, err := NewServer(config)
	if err != nil {
		return err
	}
	return s.Run(ctx, ls)
}

// Hub returns the hub.
func (s *Server) Hub() *hub.Hub {
	return s.hub
}

// Run accepts TCP connections on the listener.
func (s *Server) Run(ctx context.Context, ls net.Listener) error {
	connConfig := resonance.Config{
		MaxMessageSize: s.config.MaxMessageSize,
	}

	logger.Get(ctx).Info("Hub started",
		zap.String("hub", hubIDString(s.hubID)),
		zap.Stringer("address", ls.Addr()))

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("server", parallel.Fail, func(ctx context.Context) error {
			return resonance.RunServer(ctx, ls, connConfig,
				func(ctx context.Context, c *resonance.Connection) error {
					return s.runConn(ctx, resonanceConn{c: c, m: wire.NewMarshaller()})
				})
		})

		return nil
	})
}

func (s *Server) runConn(ctx context.Context, c conn) error {
	msg, err := c.ReceiveMessage()
	if err != nil {
		return err
	}

	helloMsg, ok := msg.(*wire.Hello)
	if !ok {
		return errors.New("hello message expected")
	}

	id := wire.DeviceID(s.lastID.Add(1))
	peer, err := s.hub.Connect(ctx, id, helloMsg.Receives)
	if err != nil {
		return err
	}
	defer s.hub.Disconnect(ctx, id)

	if err := c.SendMessage(&wire.Welcome{
		HubID:    s.hubID,
		DeviceID: id,
	}); err != nil {
		return err
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("receiver", parallel.Fail, func(ctx context.Context) error {
			for {
				msg, err := c.ReceiveMessage()
				if err != nil {
					return err
				}

				headerMsg, ok := msg.(*wire.Header)
				if !ok {
					return errors.New("header message expected")
				}

				content, err := c.ReceiveContent()
				if err != nil {
					return err
				}

				s.hub.Receive(ctx, id, wire.Frame{
					Header:  *headerMsg,
					Content: content,
				})
			}
		})
		spawn("sender", parallel.Fail, func(ctx context.Context) error {
			defer c.Close()

			for {
				frame, err := peer.Next(ctx)
				if err != nil {
					return err
				}

				if err := c.SendMessage(&frame.Header); err != nil {
					return err
				}
				if err := c.SendContent(frame.Content); err != nil {
					return err
				}
			}
		})

		return nil
	})
}
