package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection represents one user's live websocket. A user has at most one;
// a reconnect replaces the previous connection.
type Connection struct {
	ID     string
	UserID uuid.UUID
	RoomID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	ConnectedAt time.Time

	// closeMu guards closed so that a send racing a disconnect is a
	// silent no-op instead of a write to a closed channel.
	closeMu sync.Mutex
	closed  bool
}

// trySend queues a message for delivery. Returns false when the connection
// is closed or its buffer is full; the message is dropped either way.
// Delivery is best-effort, never retried or queued elsewhere.
func (c *Connection) trySend(message []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// shutdown marks the connection closed and releases the write pump.
// Safe to call more than once.
func (c *Connection) shutdown() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// writePump drains the send queue onto the socket and keeps the
// protocol-level ping ticker going.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Hub.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound messages in arrival order until the socket
// drops, then unregisters the connection.
func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
	}
}

// handleClientMessage dispatches one inbound message. Malformed or unknown
// messages are logged and dropped; they never close the connection.
func (c *Connection) handleClientMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Str("user_id", c.UserID.String()).
			Msg("dropping malformed realtime message")
		return
	}

	switch msg.Type {
	case EventPing:
		// Application-level heartbeat, answered to the sender only.
		pong, _ := json.Marshal(Event{Type: EventPong})
		c.trySend(pong)

	case EventStateRequest:
		c.Hub.NotifyUserState(context.Background(), c.UserID)

	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("user_id", c.UserID.String()).
			Str("type", msg.Type).
			Msg("ignoring unknown realtime message type")
	}
}
