package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size. Identification grids and healed image
	// data URIs are large, so this is generous.
	maxMessageSize = 4 << 20

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MessageHandler consumes inbound messages and disconnects for a client
type MessageHandler interface {
	HandleMessage(client *Client, data []byte)
	HandleDisconnect(client *Client)
}

// Client is one websocket connection. The ID doubles as the user's socket id
// in session state and individual notifications.
type Client struct {
	ID string

	// Username is bound by the newUser event. Only the connection's own read
	// loop touches it.
	Username string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// rooms is guarded by hub.mu
	rooms map[string]bool
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:    uuid.NewString(),
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]bool),
	}
}

// enqueue queues a message for the write pump, dropping it if the client is
// too far behind.
func (c *Client) enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
		c.hub.logger.Warn("message dropped - client buffer full",
			slog.String("socket_id", c.ID))
	}
}

// Serve upgrades the HTTP request and runs the connection's pumps. It blocks
// until the connection closes.
func Serve(hub *Hub, handler MessageHandler, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(hub, conn)
	hub.Register(client)

	go client.writePump()
	client.readPump(handler)
}

// readPump reads inbound messages and hands them to the handler. It owns the
// connection's read side and cleans up when the peer goes away.
func (c *Client) readPump(handler MessageHandler) {
	defer func() {
		handler.HandleDisconnect(c)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("unexpected close",
					slog.String("socket_id", c.ID),
					slog.String("error", err.Error()))
			}
			return
		}
		handler.HandleMessage(c, data)
	}
}

// writePump writes queued messages and keepalive pings to the peer
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
