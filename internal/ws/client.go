package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/metrics"
)

// Client is one live connection handle. A user may hold several at once.
type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	log  *zap.SugaredLogger

	mu     sync.Mutex
	closed bool

	pingInterval  time.Duration
	writeDeadline time.Duration
	readDeadline  time.Duration
	maxMsgSize    int64
}

type ClientOptions struct {
	PingInterval  time.Duration
	WriteDeadline time.Duration
	ReadDeadline  time.Duration
	MaxMsgSize    int64
	SendBuffer    int
}

func NewClient(conn *websocket.Conn, userID string, hub *Hub, opts ClientOptions, log *zap.SugaredLogger) *Client {
	return &Client{
		ID:            uuid.New().String(),
		UserID:        userID,
		conn:          conn,
		send:          make(chan []byte, opts.SendBuffer),
		hub:           hub,
		log:           log,
		pingInterval:  opts.PingInterval,
		writeDeadline: opts.WriteDeadline,
		readDeadline:  opts.ReadDeadline,
		maxMsgSize:    opts.MaxMsgSize,
	}
}

// Enqueue hands an encoded event to the write pump. A full buffer drops the
// event rather than blocking the caller; history fetch remains the durable
// path.
func (c *Client) Enqueue(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		metrics.DeliveriesDropped.Inc()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Run serves the connection until it closes. It blocks the caller (the
// fiber websocket handler goroutine) on the read side.
func (c *Client) Run(onCommand func(c *Client, cmd Command)) {
	go c.writePump()
	c.readPump(onCommand)
}

func (c *Client) readPump(onCommand func(c *Client, cmd Command)) {
	defer func() {
		c.hub.Unregister(c)
		c.closeSend()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(c.maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.readDeadline))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.log.Debugw("discarding malformed command", "user_id", c.UserID)
			continue
		}
		onCommand(c, cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
			metrics.EventsDispatched.Inc()
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
