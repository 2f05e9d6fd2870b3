package pulse

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/proton"
	"github.com/outofforest/pulse/device"
	"github.com/outofforest/pulse/hub"
	"github.com/outofforest/pulse/wire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Status is returned by the devices endpoint.
type Status struct {
	Hub     string           `json:"hub"`
	Devices []hub.PeerStatus `json:"devices"`
}

// Routes returns HTTP routes of the hub. Websocket sessions live until ctx is canceled.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(ctx, w, r)
	})
	r.Get("/devices", func(w http.ResponseWriter, r *http.Request) {
		s.handleDevices(ctx, w, r)
	})
	return r
}

// RunHTTP serves websocket connections and the status endpoint on the listener.
func (s *Server) RunHTTP(ctx context.Context, ls net.Listener) error {
	server := &http.Server{
		Handler:           s.Routes(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Get(ctx).Info("HTTP endpoint started", zap.Stringer("address", ls.Addr()))

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("http", parallel.Fail, func(ctx context.Context) error {
			if err := server.Serve(ls); !errors.Is(err, http.ErrServerClosed) {
				return errors.WithStack(err)
			}
			return errors.WithStack(ctx.Err())
		})
		spawn("closer", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			if err := server.Close(); err != nil {
				return errors.WithStack(err)
			}
			return errors.WithStack(ctx.Err())
		})

		return nil
	})
}

func (s *Server) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := logger.Get(ctx)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Upgrading connection failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	ws.SetReadLimit(int64(s.config.MaxMessageSize))

	err = runWebSocket(ctx, ws, func(ctx context.Context, c conn) error {
		return s.runConn(ctx, c)
	})
	if err != nil && ctx.Err() == nil {
		log.Debug("Websocket session closed", zap.String("remote", r.RemoteAddr), zap.Error(err))
	}
}

func (s *Server) handleDevices(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Status{
		Hub:     hubIDString(s.hubID),
		Devices: s.hub.Status(),
	}); err != nil {
		logger.Get(ctx).Debug("Writing device status failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
	}
}

func (client *Client) connectWebSocket(ctx context.Context, dev *device.Device) error {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, client.config.Hub, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	ws.SetReadLimit(int64(client.config.MaxMessageSize))

	return runWebSocket(ctx, ws, func(connCtx context.Context, c conn) error {
		return client.runConn(connCtx, dev, c, ctx.Done())
	})
}

// runWebSocket runs the session and closes the connection when ctx is canceled, so blocked reads
// return.
func runWebSocket(ctx context.Context, ws *websocket.Conn, fn func(ctx context.Context, c conn) error) error {
	c := wsConn{ws: ws, m: wire.NewMarshaller()}
	defer c.Close()

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("session", parallel.Fail, func(ctx context.Context) error {
			return fn(ctx, c)
		})
		spawn("closer", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			c.Close()
			return errors.WithStack(ctx.Err())
		})

		return nil
	})
}

// wsConn carries each message in its own binary websocket message. Proton messages are prefixed
// with the uvarint message ID.
type wsConn struct {
	ws *websocket.Conn
	m  proton.Marshaller
}

func (c wsConn) SendMessage(msg any) error {
	id, err := c.m.ID(msg)
	if err != nil {
		return err
	}
	size, err := c.m.Size(msg)
	if err != nil {
		return err
	}

	buf := binary.AppendUvarint(make([]byte, 0, binary.MaxVarintLen64+size), id)
	prefix := len(buf)
	buf = buf[:prefix+int(size)]
	_, n, err := c.m.Marshal(msg, buf[prefix:])
	if err != nil {
		return err
	}

	return errors.WithStack(c.ws.WriteMessage(websocket.BinaryMessage, buf[:prefix+int(n)]))
}

func (c wsConn) ReceiveMessage() (any, error) {
	data, err := c.read()
	if err != nil {
		return nil, err
	}

	id, prefix := binary.Uvarint(data)
	if prefix <= 0 {
		return nil, errors.New("invalid message ID")
	}

	msg, n, err := c.m.Unmarshal(id, data[prefix:])
	if err != nil {
		return nil, err
	}
	if n != uint64(len(data)-prefix) {
		return nil, errors.Errorf("unexpected %d trailing bytes", uint64(len(data)-prefix)-n)
	}
	return msg, nil
}

func (c wsConn) SendContent(content []byte) error {
	return errors.WithStack(c.ws.WriteMessage(websocket.BinaryMessage, content))
}

func (c wsConn) ReceiveContent() ([]byte, error) {
	return c.read()
}

func (c wsConn) Close() {
	_ = c.ws.Close()
}

func (c wsConn) read() ([]byte, error) {
	msgType, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if msgType != websocket.BinaryMessage {
		return nil, errors.Errorf("unexpected websocket message type %d", msgType)
	}
	return data, nil
}
