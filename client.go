package pulse

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/pulse/device"
	"github.com/outofforest/pulse/queue"
	"github.com/outofforest/pulse/wire"
	"github.com/outofforest/resonance"
)

var _ device.Transport = &Client{}

// ClientConfig is the config of client.
type ClientConfig struct {
	// Hub is the address of the hub. Addresses starting with ws:// or wss:// are websocket URLs,
	// any other is used to connect over TCP.
	Hub            string
	MaxMessageSize uint64
	QueueLimit     int
}

// Client connects device to the hub and reconnects whenever connection is lost.
type Client struct {
	config ClientConfig

	mu    sync.Mutex
	queue *queue.Queue
}

// NewClient creates new client. Client is the transport of the device passed to Run.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Hub == "" {
		return nil, errors.New("hub address is not specified")
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}

	return &Client{
		config: config,
	}, nil
}

// Send implements device.Transport. Frames sent while disconnected are dropped.
func (client *Client) Send(frame wire.Frame, reliability wire.Reliability) error {
	client.mu.Lock()
	q := client.queue
	client.mu.Unlock()

	if q == nil || !q.Push(frame, reliability) {
		return errors.WithStack(device.ErrNotConnected)
	}
	return nil
}

// Run runs client.
func (client *Client) Run(ctx context.Context, dev *device.Device) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("conn", parallel.Fail, func(ctx context.Context) error {
			log := logger.Get(ctx)

			for {
				err := client.connect(ctx, dev)

				if ctx.Err() != nil {
					return errors.WithStack(ctx.Err())
				}

				log.Error("Hub connection failed", zap.String("hub", client.config.Hub), zap.Error(err))
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case <-time.After(time.Second):
				}
			}
		})

		return nil
	})
}

func (client *Client) connect(ctx context.Context, dev *device.Device) error {
	if isWebSocketURL(client.config.Hub) {
		return client.connectWebSocket(ctx, dev)
	}

	return resonance.RunClient(ctx, client.config.Hub, resonance.Config{
		MaxMessageSize: client.config.MaxMessageSize,
	}, func(connCtx context.Context, c *resonance.Connection) error {
		return client.runConn(connCtx, dev, resonanceConn{c: c, m: wire.NewMarshaller()}, ctx.Done())
	})
}

// runConn runs the session. Its error is reported to the device as connection loss unless stopped
// is closed.
func (client *Client) runConn(
	ctx context.Context,
	dev *device.Device,
	c conn,
	stopped <-chan struct{},
) (retErr error) {
	if err := c.SendMessage(&wire.Hello{
		Receives: dev.Receives(),
	}); err != nil {
		return err
	}

	msg, err := c.ReceiveMessage()
	if err != nil {
		return err
	}

	welcomeMsg, ok := msg.(*wire.Welcome)
	if !ok {
		return errors.New("welcome message expected")
	}

	q := queue.New(client.config.QueueLimit)
	client.mu.Lock()
	client.queue = q
	client.mu.Unlock()

	defer func() {
		client.mu.Lock()
		client.queue = nil
		client.mu.Unlock()

		q.Close()

		cause := retErr
		select {
		case <-stopped:
			cause = nil
		default:
		}
		dev.Disconnected(ctx, cause)
	}()

	if err := dev.Connected(ctx, welcomeMsg.DeviceID); err != nil {
		return err
	}

	logger.Get(ctx).Info("Connected to hub",
		zap.String("hub", hubIDString(welcomeMsg.HubID)),
		zap.Uint64("device", uint64(welcomeMsg.DeviceID)))

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

				dev.Deliver(ctx, wire.Frame{
					Header:  *headerMsg,
					Content: content,
				})
			}
		})
		spawn("sender", parallel.Fail, func(ctx context.Context) error {
			defer c.Close()

			for {
				frame, err := q.Next(ctx)
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
