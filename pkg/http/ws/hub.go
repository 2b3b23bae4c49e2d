package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Upgrader handles WebSocket upgrades for session streams.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub tracks the live connection of each quiz session.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // session_id -> connection
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a session, closing any previous one.
func (h *Hub) RegisterConnection(sessionID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[sessionID]; exists && old != conn {
		old.Close()
	}

	h.connections[sessionID] = conn
	h.logger.Info().Str("session_id", sessionID.String()).Msg("connection registered")
}

// UnregisterConnection removes conn if it is still the session's active connection.
func (h *Hub) UnregisterConnection(sessionID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	if current, exists := h.connections[sessionID]; exists && current == conn {
		delete(h.connections, sessionID)
		h.logger.Info().Str("session_id", sessionID.String()).Msg("connection unregistered")
	}
}

// Len reports the number of sessions with a live connection.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue and keeps the peer alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Str("type", msg.Type).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
